package notify

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"slices"
	"strings"
	"time"

	"assetdeck/pkg/assets"
	"assetdeck/pkg/format"
	"assetdeck/pkg/session"
)

const DefaultWindowDays = 7

var ErrDeliveryFailed = errors.New("failed to send email")

type ReminderService interface {
	SendExpiringDigest(ctx context.Context) (Digest, error)
}

// AssetLister is the part of the asset store the digest reads.
type AssetLister interface {
	ListAssets(ctx context.Context, filters assets.AssetFilters) ([]assets.Asset, error)
}

type SessionSource interface {
	Current(ctx context.Context) (session.Session, error)
}

type DigestItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TypeLabel      string          `json:"typeLabel"`
	ExpirationDate string          `json:"expirationDate"`
	DaysUntil      int             `json:"daysUntil"`
	Label          string          `json:"label"`
	Severity       format.Severity `json:"severity"`
}

// Digest lists the assets expiring within WindowDays, already expired ones first.
type Digest struct {
	Email      string       `json:"email"`
	WindowDays int          `json:"windowDays"`
	Items      []DigestItem `json:"items"`
	Sent       bool         `json:"sent"`
}

type reminderService struct {
	assets     AssetLister
	sessions   SessionSource
	mailer     Mailer
	windowDays int
	now        func() time.Time
	logger     *log.Logger
}

func NewReminderService(lister AssetLister, sessions SessionSource, mailer Mailer, windowDays int, now func() time.Time) ReminderService {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &reminderService{
		assets:     lister,
		sessions:   sessions,
		mailer:     mailer,
		windowDays: windowDays,
		now:        now,
		logger:     log.New(log.Writer(), "[notify] ", log.LstdFlags),
	}
}

func (s *reminderService) SendExpiringDigest(ctx context.Context) (Digest, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return Digest{}, err
	}
	list, err := s.assets.ListAssets(ctx, assets.AssetFilters{})
	if err != nil {
		return Digest{}, err
	}

	d := BuildDigest(list, s.windowDays, s.now())
	d.Email = sess.Email
	if len(d.Items) == 0 {
		return d, nil
	}

	plain, html, err := renderDigest(d)
	if err != nil {
		return Digest{}, err
	}
	subject := fmt.Sprintf("%d assets need attention", len(d.Items))
	if len(d.Items) == 1 {
		subject = fmt.Sprintf("%s %s", d.Items[0].Name, d.Items[0].Label)
	}
	if err := s.mailer.SendEmail(ctx, subject, sess.Email, plain, html); err != nil {
		s.logger.Printf("digest for %s: %v", sess.AccountID, err)
		return d, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	d.Sent = true
	s.logger.Printf("digest with %d items sent to %s", len(d.Items), sess.AccountID)
	return d, nil
}

// BuildDigest selects the assets that expire within windowDays of now or have
// already expired, soonest first.
func BuildDigest(list []assets.Asset, windowDays int, now time.Time) Digest {
	d := Digest{WindowDays: windowDays, Items: []DigestItem{}}
	for _, a := range list {
		days, ok := format.DaysUntilExpiration(a.ExpirationDate, now)
		if !ok || days > windowDays {
			continue
		}
		exp := format.ExpirationStatus(a.ExpirationDate, now)
		d.Items = append(d.Items, DigestItem{
			ID:             a.ID,
			Name:           a.Name,
			TypeLabel:      a.Type.Label(),
			ExpirationDate: format.Date(a.ExpirationDate),
			DaysUntil:      days,
			Label:          exp.Label,
			Severity:       exp.Severity,
		})
	}
	slices.SortStableFunc(d.Items, func(a, b DigestItem) int { return cmp.Compare(a.DaysUntil, b.DaysUntil) })
	return d
}

var digestHTML = template.Must(template.New("digest").Parse(`<p>These assets need attention:</p>
<ul>
{{- range .Items}}
<li><strong>{{.Name}}</strong> ({{.TypeLabel}}): {{.Label}}, {{.ExpirationDate}}</li>
{{- end}}
</ul>`))

func renderDigest(d Digest) (plain, html string, err error) {
	var sb strings.Builder
	sb.WriteString("These assets need attention:\n")
	for _, it := range d.Items {
		fmt.Fprintf(&sb, "- %s (%s): %s, %s\n", it.Name, it.TypeLabel, it.Label, it.ExpirationDate)
	}

	var buf bytes.Buffer
	if err := digestHTML.Execute(&buf, d); err != nil {
		return "", "", fmt.Errorf("render digest: %w", err)
	}
	return sb.String(), buf.String(), nil
}
