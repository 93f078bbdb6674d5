package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assetdeck/pkg/assets"
	"assetdeck/pkg/date"
	"assetdeck/pkg/format"
	"assetdeck/pkg/session"
	"assetdeck/pkg/testhelpers"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendEmail(ctx context.Context, subject, toEmail, plain, html string) error {
	args := m.Called(ctx, subject, toEmail, plain, html)
	return args.Error(0)
}

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListAssets(ctx context.Context, filters assets.AssetFilters) ([]assets.Asset, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).([]assets.Asset)
	return list, args.Error(1)
}

type fixedSession struct {
	sess session.Session
	err  error
}

func (f fixedSession) Current(ctx context.Context) (session.Session, error) {
	return f.sess, f.err
}

var now = time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)

func sampleAssets() []assets.Asset {
	today := date.Of(now)
	return []assets.Asset{
		{ID: "1", Name: "far.com", Type: assets.TypeDomain, ExpirationDate: today.Add(40)},
		{ID: "2", Name: "vps", Type: assets.TypeHosting, ExpirationDate: today.Add(7)},
		{ID: "3", Name: "old bm", Type: assets.TypeBusinessManager, ExpirationDate: today.Add(-2)},
		{ID: "4", Name: "forever", Type: assets.TypeOther},
		{ID: "5", Name: "ads", Type: assets.TypeAdAccount, ExpirationDate: today.Add(8)},
	}
}

func TestBuildDigest(t *testing.T) {
	d := BuildDigest(sampleAssets(), 7, now)
	require.Equal(t, 7, d.WindowDays)
	require.Len(t, d.Items, 2)
	require.Equal(t, "old bm", d.Items[0].Name)
	require.Equal(t, "expired 2 days ago", d.Items[0].Label)
	require.Equal(t, format.SeverityCritical, d.Items[0].Severity)
	require.Equal(t, "vps", d.Items[1].Name)
	require.Equal(t, "Hosting", d.Items[1].TypeLabel)
	require.Equal(t, "8 de jun. de 2025", d.Items[1].ExpirationDate)

	require.Empty(t, BuildDigest(nil, 7, now).Items)
}

func TestReminderService_SendsDigest(t *testing.T) {
	lister := new(mockLister)
	mailer := new(mockMailer)
	svc := NewReminderService(lister, fixedSession{sess: session.Session{AccountID: "acc", Email: "a@example.com"}},
		mailer, 0, testhelpers.Frozen(now))

	lister.On("ListAssets", mock.Anything, assets.AssetFilters{}).Return(sampleAssets(), nil)
	mailer.On("SendEmail", mock.Anything, "2 assets need attention", "a@example.com",
		mock.MatchedBy(func(plain string) bool { return len(plain) > 0 }),
		mock.MatchedBy(func(html string) bool { return len(html) > 0 }),
	).Return(nil)

	d, err := svc.SendExpiringDigest(context.Background())
	require.NoError(t, err)
	require.True(t, d.Sent)
	require.Equal(t, DefaultWindowDays, d.WindowDays)
	require.Equal(t, "a@example.com", d.Email)
	mailer.AssertExpectations(t)
}

func TestReminderService_EmptyDigestIsNotSent(t *testing.T) {
	lister := new(mockLister)
	mailer := new(mockMailer)
	svc := NewReminderService(lister, fixedSession{sess: session.Session{Email: "a@example.com"}}, mailer, 7, testhelpers.Frozen(now))

	lister.On("ListAssets", mock.Anything, mock.Anything).Return([]assets.Asset{}, nil)

	d, err := svc.SendExpiringDigest(context.Background())
	require.NoError(t, err)
	require.False(t, d.Sent)
	mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderService_DeliveryFailure(t *testing.T) {
	lister := new(mockLister)
	mailer := new(mockMailer)
	svc := NewReminderService(lister, fixedSession{sess: session.Session{Email: "a@example.com"}}, mailer, 7, testhelpers.Frozen(now))

	lister.On("ListAssets", mock.Anything, mock.Anything).Return(sampleAssets(), nil)
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("sendgrid responded 401"))

	d, err := svc.SendExpiringDigest(context.Background())
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.False(t, d.Sent)
	require.Len(t, d.Items, 2)
}

func TestReminderService_RequiresSession(t *testing.T) {
	svc := NewReminderService(new(mockLister), fixedSession{err: session.ErrNotAuthenticated}, new(mockMailer), 7, nil)

	_, err := svc.SendExpiringDigest(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestRenderDigest_EscapesHTML(t *testing.T) {
	d := Digest{Items: []DigestItem{{Name: "<b>x</b>", TypeLabel: "Other", Label: "expires today", ExpirationDate: "1 de jun. de 2025"}}}

	plain, html, err := renderDigest(d)
	require.NoError(t, err)
	require.Contains(t, plain, "- <b>x</b> (Other): expires today, 1 de jun. de 2025")
	require.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}
