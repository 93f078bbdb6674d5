package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"assetdeck/pkg/date"
	"assetdeck/pkg/format"
)

func TestBuildOverview(t *testing.T) {
	now := time.Date(2025, time.June, 1, 18, 30, 0, 0, time.UTC)
	today := date.Of(now)
	list := []Asset{
		{ID: "a", Name: "later", Type: TypeDomain, Status: StatusOnline, Cost: 0.1, ExpirationDate: today.Add(6)},
		{ID: "b", Name: "gone", Type: TypeHosting, Status: StatusExpired, Cost: 0.2, ExpirationDate: today.Add(-3)},
		{ID: "c", Name: "today", Type: TypeAdAccount, Status: StatusOnline, Cost: 1000, ExpirationDate: today},
		{ID: "d", Name: "month", Type: TypeOther, Status: StatusPending, ExpirationDate: today.Add(20)},
		{ID: "e", Name: "forever", Type: TypeOther, Status: StatusInactive},
	}

	o := BuildOverview(list, "Agency", now)
	require.Equal(t, 5, o.Total)
	require.Equal(t, map[AssetStatus]int{StatusOnline: 2, StatusExpired: 1, StatusPending: 1, StatusInactive: 1}, o.ByStatus)
	require.Equal(t, 1000.3, o.TotalCost)
	require.Equal(t, "1.000,30", o.TotalCostFormatted)
	require.Equal(t, "Agency", o.StructureName)
	require.Equal(t, 2, o.Readiness.ActiveCount)

	require.Len(t, o.Expiring, 3)
	require.Equal(t, []string{"b", "c", "a"}, []string{o.Expiring[0].ID, o.Expiring[1].ID, o.Expiring[2].ID})
	require.Equal(t, "expired 3 days ago", o.Expiring[0].Label)
	require.Equal(t, format.SeverityCritical, o.Expiring[0].Severity)
	require.Equal(t, format.SeverityCriticalEmphasis, o.Expiring[1].Severity)
	require.Equal(t, 6, o.Expiring[2].DaysUntil)
}

func TestBuildOverview_LargeTotal(t *testing.T) {
	now := time.Date(2025, time.June, 1, 18, 30, 0, 0, time.UTC)
	list := []Asset{
		{ID: "a", Name: "big", Type: TypeDomain, Status: StatusOnline, Cost: 9e16},
		{ID: "b", Name: "bigger", Type: TypeHosting, Status: StatusOnline, Cost: 9e16},
	}

	o := BuildOverview(list, "Agency", now)
	require.Equal(t, "180.000.000.000.000.000,00", o.TotalCostFormatted)
	require.Equal(t, "90.000.000.000.000.000,00", NewAssetView(list[0], now).CostFormatted)
}

func TestBuildOverview_Empty(t *testing.T) {
	o := BuildOverview(nil, "Main Structure", time.Now())
	require.Zero(t, o.Total)
	require.Equal(t, "0,00", o.TotalCostFormatted)
	require.Equal(t, []ExpiringAsset{}, o.Expiring)
	require.Len(t, o.ByStatus, len(AllAssetStatuses))
}

func TestBuildFolders(t *testing.T) {
	list := []Asset{
		{Type: TypeFacebookPage, Status: StatusPending},
		{Type: TypeFacebookPage, Status: StatusOnline},
		{Type: TypeOther, Status: StatusExpired},
		{Type: "legacy", Status: StatusOnline},
	}

	folders := BuildFolders(list)
	require.Len(t, folders, len(AllAssetTypes))
	for i, f := range folders {
		require.Equal(t, AllAssetTypes[i], f.Type)
	}

	page := folders[5]
	require.Equal(t, TypeFacebookPage, page.Type)
	require.Equal(t, "Facebook Page", page.Label)
	require.Equal(t, "sky", page.Color)
	require.Equal(t, 2, page.Count)
	require.True(t, page.HasOnline)

	other := folders[7]
	require.Equal(t, 1, other.Count)
	require.False(t, other.HasOnline)

	require.Zero(t, folders[0].Count)
}

func TestNewAssetView(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 1, 0, time.UTC)
	a := Asset{
		ID: "x", Name: "shop.com", Type: TypeDomain, Status: StatusOnline, Cost: 12.5,
		ExpirationDate: date.MustParse("2025-06-06"), Tags: []string{"main"},
	}

	v := NewAssetView(a, now)
	require.Equal(t, a, v.Asset)
	require.Equal(t, "Domain", v.TypeLabel)
	require.Equal(t, "blue", v.TypeColor)
	require.Equal(t, "Online", v.StatusLabel)
	require.Equal(t, "emerald", v.StatusColor)
	require.Equal(t, "12,50", v.CostFormatted)
	require.Equal(t, "6 de jun. de 2025", v.ExpirationFormatted)
	require.Equal(t, "expires in 5 days", v.Expiration.Label)
	require.Equal(t, format.SeverityHigh, v.Expiration.Severity)

	v = NewAssetView(Asset{Type: "legacy", Status: "archived"}, now)
	require.Equal(t, "Legacy", v.TypeLabel)
	require.Equal(t, format.NotAvailable, v.ExpirationFormatted)
	require.Equal(t, "no expiration", v.Expiration.Label)
}
