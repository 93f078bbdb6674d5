package assets

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"assetdeck/pkg/date"
	"assetdeck/pkg/format"
)

type ExpiringAsset struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AssetType       `json:"type"`
	ExpirationDate date.Date       `json:"expirationDate" swaggertype:"string"`
	DaysUntil      int             `json:"daysUntil"`
	Label          string          `json:"label"`
	Severity       format.Severity `json:"severity"`
}

// Overview is the dashboard summary of the signed-in account.
type Overview struct {
	Total              int                 `json:"total"`
	ByStatus           map[AssetStatus]int `json:"byStatus"`
	TotalCost          float64             `json:"totalCost"`
	TotalCostFormatted string              `json:"totalCostFormatted"`
	Readiness          Readiness           `json:"readiness"`
	Expiring           []ExpiringAsset     `json:"expiring"`
	StructureName      string              `json:"structureName"`
}

func BuildOverview(list []Asset, structureName string, now time.Time) Overview {
	o := Overview{
		Total:         len(list),
		ByStatus:      make(map[AssetStatus]int, len(AllAssetStatuses)),
		Readiness:     EvaluateReadiness(list),
		Expiring:      []ExpiringAsset{},
		StructureName: structureName,
	}
	for _, s := range AllAssetStatuses {
		o.ByStatus[s] = 0
	}

	total := decimal.Zero
	for _, a := range list {
		o.ByStatus[a.Status]++
		total = total.Add(decimal.NewFromFloat(a.Cost))

		exp := format.ExpirationStatus(a.ExpirationDate, now)
		if !exp.Severity.Urgent() {
			continue
		}
		o.Expiring = append(o.Expiring, ExpiringAsset{
			ID:             a.ID,
			Name:           a.Name,
			Type:           a.Type,
			ExpirationDate: a.ExpirationDate,
			DaysUntil:      *exp.Days,
			Label:          exp.Label,
			Severity:       exp.Severity,
		})
	}
	slices.SortStableFunc(o.Expiring, func(a, b ExpiringAsset) int {
		return cmp.Compare(a.DaysUntil, b.DaysUntil)
	})

	o.TotalCost = total.Round(2).InexactFloat64()
	o.TotalCostFormatted = format.Decimal(total)
	return o
}

// Folder groups the account's assets by type.
type Folder struct {
	Type      AssetType `json:"type"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Count     int       `json:"count"`
	HasOnline bool      `json:"hasOnline"`
}

// BuildFolders returns one folder per type in enumeration order, empty ones included.
func BuildFolders(list []Asset) []Folder {
	folders := make([]Folder, len(AllAssetTypes))
	index := make(map[AssetType]int, len(AllAssetTypes))
	for i, t := range AllAssetTypes {
		folders[i] = Folder{Type: t, Label: t.Label(), Color: t.Color()}
		index[t] = i
	}
	for _, a := range list {
		i, ok := index[a.Type]
		if !ok {
			continue
		}
		folders[i].Count++
		if a.Status == StatusOnline {
			folders[i].HasOnline = true
		}
	}
	return folders
}

// AssetView is an asset with its display fields resolved.
type AssetView struct {
	Asset
	TypeLabel           string            `json:"typeLabel"`
	TypeColor           string            `json:"typeColor"`
	StatusLabel         string            `json:"statusLabel"`
	StatusColor         string            `json:"statusColor"`
	CostFormatted       string            `json:"costFormatted"`
	ExpirationFormatted string            `json:"expirationFormatted"`
	Expiration          format.Expiration `json:"expiration"`
}

func NewAssetView(a Asset, now time.Time) AssetView {
	return AssetView{
		Asset:               a,
		TypeLabel:           a.Type.Label(),
		TypeColor:           a.Type.Color(),
		StatusLabel:         a.Status.Label(),
		StatusColor:         a.Status.Color(),
		CostFormatted:       format.Currency(a.Cost),
		ExpirationFormatted: format.Date(a.ExpirationDate),
		Expiration:          format.ExpirationStatus(a.ExpirationDate, now),
	}
}

func NewAssetViews(list []Asset, now time.Time) []AssetView {
	views := make([]AssetView, 0, len(list))
	for _, a := range list {
		views = append(views, NewAssetView(a, now))
	}
	return views
}
