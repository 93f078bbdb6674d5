package assets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"assetdeck/pkg/kv"
	"assetdeck/pkg/session"
)

type AssetService interface {
	ListAssets(ctx context.Context, filters AssetFilters) ([]Asset, error)
	GetAsset(ctx context.Context, id string) (Asset, error)
	CreateAsset(ctx context.Context, input AssetInput) (Asset, error)
	UpdateAsset(ctx context.Context, asset Asset) (Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	DeleteAllAssetsByOwner(ctx context.Context, ownerID string) error
	Overview(ctx context.Context) (Overview, error)
	Folders(ctx context.Context) ([]Folder, error)
}

// SessionSource resolves the signed-in account every operation is scoped to.
type SessionSource interface {
	Current(ctx context.Context) (session.Session, error)
	Profile(ctx context.Context) (session.Profile, error)
}

// EventPublisher receives an Event after each successful mutation.
type EventPublisher interface {
	Publish(accountID string, payload any) error
}

const (
	EventCreated = "asset.created"
	EventUpdated = "asset.updated"
	EventDeleted = "asset.deleted"
)

type Event struct {
	Type  string    `json:"type"`
	Asset *Asset    `json:"asset,omitempty"`
	ID    string    `json:"id,omitempty"`
	At    time.Time `json:"at"`
}

type assetService struct {
	repo     AssetRepository
	sessions SessionSource
	events   EventPublisher
	now      func() time.Time
	logger   *log.Logger

	mu     sync.Mutex
	loaded bool
	all    []Asset
}

// NewAssetService returns the store over repo. events and now may be nil.
func NewAssetService(repo AssetRepository, sessions SessionSource, events EventPublisher, now func() time.Time) AssetService {
	if now == nil {
		now = time.Now
	}
	return &assetService{
		repo:     repo,
		sessions: sessions,
		events:   events,
		now:      now,
		logger:   log.New(log.Writer(), "[assets] ", log.LstdFlags),
	}
}

// load fills the cache on first use. A corrupt stored value degrades to an empty
// collection that the next write replaces; any other read failure is returned.
func (s *assetService) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	list, err := s.repo.LoadAssets(ctx)
	if err != nil {
		if !errors.Is(err, kv.ErrCorruptValue) {
			return &PersistenceError{Op: "load", Err: err}
		}
		s.logger.Printf("stored assets unreadable, starting empty: %v", err)
		list = []Asset{}
	}
	s.all = list
	s.loaded = true
	return nil
}

// owned loads the collection and returns the signed-in account. Read paths degrade
// to an empty collection when the store cannot be read.
func (s *assetService) owned(ctx context.Context) (session.Session, []Asset, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return session.Session{}, nil, err
	}
	if err := s.load(ctx); err != nil {
		s.logger.Printf("list for %s: %v", sess.AccountID, err)
		return sess, []Asset{}, nil
	}
	out := make([]Asset, 0, len(s.all))
	for _, a := range s.all {
		if a.OwnerID == sess.AccountID {
			out = append(out, a.clone())
		}
	}
	return sess, out, nil
}

func (s *assetService) ListAssets(ctx context.Context, filters AssetFilters) ([]Asset, error) {
	if filters.Type != "" && !filters.Type.Valid() {
		return nil, &ValidationError{Field: "type", Message: "unknown asset type"}
	}
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "unknown asset status"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, list, err := s.owned(ctx)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, a := range list {
		if filters.matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f AssetFilters) matches(a Asset) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" || strings.Contains(strings.ToLower(a.Name), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (s *assetService) GetAsset(ctx context.Context, id string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, list, err := s.owned(ctx)
	if err != nil {
		return Asset{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return Asset{}, ErrAssetNotFound
}

func (s *assetService) CreateAsset(ctx context.Context, input AssetInput) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return Asset{}, err
	}
	input, err = validateInput(input)
	if err != nil {
		return Asset{}, err
	}
	if err := s.load(ctx); err != nil {
		return Asset{}, err
	}

	now := s.now().UTC()
	created := Asset{
		ID:             s.newID(),
		OwnerID:        sess.AccountID,
		Name:           input.Name,
		Type:           input.Type,
		Status:         input.Status,
		Cost:           input.Cost,
		ExpirationDate: input.ExpirationDate,
		Tags:           input.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	next := make([]Asset, 0, len(s.all)+1)
	next = append(next, s.all...)
	next = append(next, created)
	if err := s.commit(ctx, "create", next); err != nil {
		return Asset{}, err
	}

	s.logger.Printf("asset %s created for %s", created.ID, sess.AccountID)
	s.publish(sess.AccountID, Event{Type: EventCreated, Asset: &created, At: now})
	return created.clone(), nil
}

func (s *assetService) UpdateAsset(ctx context.Context, asset Asset) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return Asset{}, err
	}
	if err := s.load(ctx); err != nil {
		return Asset{}, err
	}

	idx := s.indexOf(sess.AccountID, asset.ID)
	if idx < 0 {
		return Asset{}, ErrAssetNotFound
	}

	input, err := validateInput(AssetInput{
		Name:           asset.Name,
		Type:           asset.Type,
		Status:         asset.Status,
		Cost:           asset.Cost,
		ExpirationDate: asset.ExpirationDate,
		Tags:           asset.Tags,
	})
	if err != nil {
		return Asset{}, err
	}

	prev := s.all[idx]
	updated := prev
	updated.Name = input.Name
	updated.Type = input.Type
	updated.Status = input.Status
	updated.Cost = input.Cost
	updated.ExpirationDate = input.ExpirationDate
	updated.Tags = input.Tags
	updated.UpdatedAt = s.now().UTC()
	// updatedAt must move forward even when the clock has not.
	if !updated.UpdatedAt.After(prev.UpdatedAt) {
		updated.UpdatedAt = prev.UpdatedAt.Add(time.Millisecond)
	}

	next := append([]Asset(nil), s.all...)
	next[idx] = updated
	if err := s.commit(ctx, "update", next); err != nil {
		return Asset{}, err
	}

	s.publish(sess.AccountID, Event{Type: EventUpdated, Asset: &updated, At: updated.UpdatedAt})
	return updated.clone(), nil
}

// DeleteAsset removes id from the account's collection. Unknown ids are ignored
// and nothing is written.
func (s *assetService) DeleteAsset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.load(ctx); err != nil {
		return err
	}

	idx := s.indexOf(sess.AccountID, id)
	if idx < 0 {
		return nil
	}

	next := make([]Asset, 0, len(s.all)-1)
	next = append(next, s.all[:idx]...)
	next = append(next, s.all[idx+1:]...)
	if err := s.commit(ctx, "delete", next); err != nil {
		return err
	}

	s.logger.Printf("asset %s deleted for %s", id, sess.AccountID)
	s.publish(sess.AccountID, Event{Type: EventDeleted, ID: id, At: s.now().UTC()})
	return nil
}

// DeleteAllAssetsByOwner drops every asset of ownerID. It does not require a session
// so it can run while one is being closed.
func (s *assetService) DeleteAllAssetsByOwner(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	next := make([]Asset, 0, len(s.all))
	for _, a := range s.all {
		if a.OwnerID != ownerID {
			next = append(next, a)
		}
	}
	if len(next) == len(s.all) {
		return nil
	}
	if err := s.commit(ctx, "purge", next); err != nil {
		return err
	}
	s.logger.Printf("removed %d cached assets of %s", len(s.all)-len(next), ownerID)
	return nil
}

func (s *assetService) Overview(ctx context.Context) (Overview, error) {
	s.mu.Lock()
	_, list, err := s.owned(ctx)
	s.mu.Unlock()
	if err != nil {
		return Overview{}, err
	}

	prof, err := s.sessions.Profile(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("load profile: %w", err)
	}
	return BuildOverview(list, prof.StructureName, s.now()), nil
}

func (s *assetService) Folders(ctx context.Context) ([]Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, list, err := s.owned(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFolders(list), nil
}

// commit writes next through the repository and only then makes it current.
func (s *assetService) commit(ctx context.Context, op string, next []Asset) error {
	if err := s.repo.SaveAssets(ctx, next); err != nil {
		s.logger.Printf("%s: save failed: %v", op, err)
		return &PersistenceError{Op: op, Err: err}
	}
	s.all = next
	return nil
}

func (s *assetService) indexOf(ownerID, id string) int {
	for i, a := range s.all {
		if a.ID == id && a.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (s *assetService) newID() string {
	for {
		id := uuid.NewString()
		taken := false
		for _, a := range s.all {
			if a.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func (s *assetService) publish(accountID string, ev Event) {
	if s.events == nil {
		return
	}
	if ev.Asset != nil {
		a := ev.Asset.clone()
		ev.Asset = &a
	}
	if err := s.events.Publish(accountID, ev); err != nil {
		s.logger.Printf("publish %s: %v", ev.Type, err)
	}
}

func validateInput(in AssetInput) (AssetInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, &ValidationError{Field: "name", Message: "name is required"}
	}
	if !in.Type.Valid() {
		return in, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown asset type %q", in.Type)}
	}
	if !in.Status.Valid() {
		return in, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown asset status %q", in.Status)}
	}
	if math.IsNaN(in.Cost) || math.IsInf(in.Cost, 0) || in.Cost < 0 {
		return in, &ValidationError{Field: "cost", Message: "cost must be zero or more"}
	}
	in.Tags = normalizeTags(in.Tags)
	return in, nil
}

// normalizeTags trims tags, drops blanks and keeps the first of each duplicate.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
