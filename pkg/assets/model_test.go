package assets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"assetdeck/pkg/format"
)

func TestAssetType_LookupsCoverEnumeration(t *testing.T) {
	colors := map[string]bool{}
	for _, typ := range AllAssetTypes {
		require.True(t, typ.Valid(), typ)
		require.NotEqual(t, format.Capitalize(string(typ)), typ.Label(), "missing label for %s", typ)
		colors[typ.Color()] = true
	}
	require.Len(t, colors, len(AllAssetTypes))

	require.Equal(t, "Business Manager", TypeLabel("bm"))
	require.Equal(t, "purple", TypeColor("bm"))
	require.Equal(t, "zinc", TypeOther.Color())
}

func TestAssetType_Fallbacks(t *testing.T) {
	_, ok := ParseAssetType("tiktok")
	require.False(t, ok)
	require.Equal(t, "Tiktok", TypeLabel("tiktok"))
	require.Equal(t, "zinc", TypeColor("tiktok"))
	require.Equal(t, "", TypeLabel(""))

	typ, ok := ParseAssetType("conta_de_anuncio")
	require.True(t, ok)
	require.Equal(t, TypeAdAccount, typ)
}

func TestAssetStatus_Lookups(t *testing.T) {
	want := map[AssetStatus][2]string{
		StatusOnline:   {"Online", "emerald"},
		StatusExpired:  {"Expired", "red"},
		StatusPending:  {"Pending", "amber"},
		StatusInactive: {"Inactive", "gray"},
	}
	require.Len(t, AllAssetStatuses, len(want))
	for _, s := range AllAssetStatuses {
		require.Equal(t, want[s][0], s.Label())
		require.Equal(t, want[s][1], s.Color())
	}

	_, ok := ParseAssetStatus("archived")
	require.False(t, ok)
	require.Equal(t, "Archived", StatusLabel("archived"))
	require.Equal(t, "blue", StatusColor("archived"))
}
