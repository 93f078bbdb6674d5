package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetdeck/pkg/kv"
)

// DefaultStructureName labels the portfolio of a fresh profile.
const DefaultStructureName = "Main Structure"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrEmptyPassword    = errors.New("password is required")
	ErrEmptyStructure   = errors.New("structure name cannot be empty")
)

// Provider is the identity/session contract consumed by the asset store and the HTTP layer.
//
// The local implementation is a stub: it never checks or stores passwords and must not be
// treated as a security boundary. A real identity provider can replace it behind this interface.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (SignedIn, error)
	SignUp(ctx context.Context, email, password string) (SignedIn, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (Session, error)
	Profile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error)
}

// AssetPurger drops the locally cached assets of an account on sign-out.
type AssetPurger interface {
	DeleteAllAssetsByOwner(ctx context.Context, ownerID string) error
}

// AssetPurgerFunc adapts a function to AssetPurger.
type AssetPurgerFunc func(ctx context.Context, ownerID string) error

func (f AssetPurgerFunc) DeleteAllAssetsByOwner(ctx context.Context, ownerID string) error {
	return f(ctx, ownerID)
}

type localProvider struct {
	store  kv.Store
	purger AssetPurger
	now    func() time.Time
	logger *log.Logger
}

// NewLocalProvider returns the device-local stub provider backed by the auth_user and
// user_profile slots. purger may be nil.
func NewLocalProvider(store kv.Store, purger AssetPurger, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	return &localProvider{
		store:  store,
		purger: purger,
		now:    now,
		logger: log.New(log.Writer(), "[session] ", log.LstdFlags),
	}
}

// AccountID derives the stable account id for an email address.
func AccountID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String()
}

func (p *localProvider) SignIn(ctx context.Context, email, password string) (SignedIn, error) {
	return p.open(ctx, email, password)
}

// SignUp behaves like SignIn: the stub has no account registry to conflict with.
func (p *localProvider) SignUp(ctx context.Context, email, password string) (SignedIn, error) {
	return p.open(ctx, email, password)
}

func (p *localProvider) open(ctx context.Context, email, password string) (SignedIn, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return SignedIn{}, ErrInvalidEmail
	}
	if password == "" {
		return SignedIn{}, ErrEmptyPassword
	}

	now := p.now().UTC()
	sess := Session{AccountID: AccountID(email), Email: email, CreatedAt: now}

	var prof Profile
	found, err := kv.GetJSON(ctx, p.store, kv.SlotProfile, &prof)
	if err != nil {
		p.logger.Printf("stored profile unreadable, starting fresh: %v", err)
		found = false
	}
	if !found || prof.ID != sess.AccountID {
		name := strings.SplitN(email, "@", 2)[0]
		prof = Profile{
			ID:            sess.AccountID,
			Email:         email,
			Name:          &name,
			StructureName: DefaultStructureName,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	if err := kv.PutJSON(ctx, p.store, kv.SlotUser, sess); err != nil {
		return SignedIn{}, fmt.Errorf("store session: %w", err)
	}
	if err := kv.PutJSON(ctx, p.store, kv.SlotProfile, prof); err != nil {
		return SignedIn{}, fmt.Errorf("store profile: %w", err)
	}

	p.logger.Printf("account %s signed in", sess.AccountID)
	return SignedIn{Session: sess, Profile: prof}, nil
}

func (p *localProvider) SignOut(ctx context.Context) error {
	sess, err := p.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return nil
		}
		return err
	}

	if p.purger != nil {
		if err := p.purger.DeleteAllAssetsByOwner(ctx, sess.AccountID); err != nil {
			return fmt.Errorf("clear cached assets: %w", err)
		}
	}
	if err := p.store.Delete(ctx, kv.SlotUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := p.store.Delete(ctx, kv.SlotProfile); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	p.logger.Printf("account %s signed out", sess.AccountID)
	return nil
}

func (p *localProvider) Current(ctx context.Context) (Session, error) {
	var sess Session
	found, err := kv.GetJSON(ctx, p.store, kv.SlotUser, &sess)
	if errors.Is(err, kv.ErrCorruptValue) {
		p.logger.Printf("stored session unreadable, treating as signed out: %v", err)
		return Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !found || sess.AccountID == "" {
		return Session{}, ErrNotAuthenticated
	}
	return sess, nil
}

func (p *localProvider) Profile(ctx context.Context) (Profile, error) {
	sess, err := p.Current(ctx)
	if err != nil {
		return Profile{}, err
	}

	var prof Profile
	found, err := kv.GetJSON(ctx, p.store, kv.SlotProfile, &prof)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !found || prof.ID != sess.AccountID {
		return Profile{ID: sess.AccountID, Email: sess.Email, StructureName: DefaultStructureName,
			CreatedAt: sess.CreatedAt, UpdatedAt: sess.CreatedAt}, nil
	}
	return prof, nil
}

func (p *localProvider) UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	prof, err := p.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}

	if update.StructureName != nil {
		name := strings.TrimSpace(*update.StructureName)
		if name == "" {
			return Profile{}, ErrEmptyStructure
		}
		prof.StructureName = name
	}
	if update.Name != nil {
		prof.Name = update.Name
	}
	if update.AvatarURL != nil {
		prof.AvatarURL = update.AvatarURL
	}
	prof.UpdatedAt = p.now().UTC()

	if err := kv.PutJSON(ctx, p.store, kv.SlotProfile, prof); err != nil {
		return Profile{}, fmt.Errorf("store profile: %w", err)
	}
	return prof, nil
}
