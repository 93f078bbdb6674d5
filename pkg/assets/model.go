package assets

import (
	"time"

	"assetdeck/pkg/date"
	"assetdeck/pkg/format"
)

// AssetType is the category of a tracked asset. The wire values are the ones
// already present in stored collections.
type AssetType string

const (
	TypeDomain           AssetType = "dominio"
	TypeHosting          AssetType = "hospedagem"
	TypeBusinessManager  AssetType = "bm"
	TypeAdAccount        AssetType = "conta_de_anuncio"
	TypeFacebookProfile  AssetType = "perfil_do_facebook"
	TypeFacebookPage     AssetType = "pagina_do_facebook"
	TypeInstagramProfile AssetType = "perfil_do_instagram"
	TypeOther            AssetType = "outros"
)

// AllAssetTypes lists the enumeration in display order.
var AllAssetTypes = []AssetType{
	TypeDomain,
	TypeHosting,
	TypeBusinessManager,
	TypeAdAccount,
	TypeFacebookProfile,
	TypeFacebookPage,
	TypeInstagramProfile,
	TypeOther,
}

func (t AssetType) Valid() bool {
	switch t {
	case TypeDomain, TypeHosting, TypeBusinessManager, TypeAdAccount,
		TypeFacebookProfile, TypeFacebookPage, TypeInstagramProfile, TypeOther:
		return true
	}
	return false
}

func (t AssetType) Label() string {
	switch t {
	case TypeDomain:
		return "Domain"
	case TypeHosting:
		return "Hosting"
	case TypeBusinessManager:
		return "Business Manager"
	case TypeAdAccount:
		return "Ad Account"
	case TypeFacebookProfile:
		return "Facebook Profile"
	case TypeFacebookPage:
		return "Facebook Page"
	case TypeInstagramProfile:
		return "Instagram Profile"
	case TypeOther:
		return "Other"
	}
	return format.Capitalize(string(t))
}

func (t AssetType) Color() string {
	switch t {
	case TypeDomain:
		return "blue"
	case TypeHosting:
		return "emerald"
	case TypeBusinessManager:
		return "purple"
	case TypeAdAccount:
		return "amber"
	case TypeFacebookProfile:
		return "indigo"
	case TypeFacebookPage:
		return "sky"
	case TypeInstagramProfile:
		return "pink"
	}
	return "zinc"
}

// ParseAssetType reports whether raw names a member of the enumeration.
func ParseAssetType(raw string) (AssetType, bool) {
	t := AssetType(raw)
	return t, t.Valid()
}

// TypeLabel and TypeColor accept any string, including values written by older clients.
func TypeLabel(raw string) string { return AssetType(raw).Label() }
func TypeColor(raw string) string { return AssetType(raw).Color() }

type AssetStatus string

const (
	StatusOnline   AssetStatus = "online"
	StatusExpired  AssetStatus = "expired"
	StatusPending  AssetStatus = "pending"
	StatusInactive AssetStatus = "inactive"
)

var AllAssetStatuses = []AssetStatus{StatusOnline, StatusExpired, StatusPending, StatusInactive}

func (s AssetStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusExpired, StatusPending, StatusInactive:
		return true
	}
	return false
}

func (s AssetStatus) Label() string {
	switch s {
	case StatusOnline:
		return "Online"
	case StatusExpired:
		return "Expired"
	case StatusPending:
		return "Pending"
	case StatusInactive:
		return "Inactive"
	}
	return format.Capitalize(string(s))
}

func (s AssetStatus) Color() string {
	switch s {
	case StatusOnline:
		return "emerald"
	case StatusExpired:
		return "red"
	case StatusPending:
		return "amber"
	case StatusInactive:
		return "gray"
	}
	return "blue"
}

func ParseAssetStatus(raw string) (AssetStatus, bool) {
	s := AssetStatus(raw)
	return s, s.Valid()
}

func StatusLabel(raw string) string { return AssetStatus(raw).Label() }
func StatusColor(raw string) string { return AssetStatus(raw).Color() }

// Asset is one tracked resource. The JSON layout is the stored one.
type Asset struct {
	ID             string      `json:"id"`
	OwnerID        string      `json:"ownerId"`
	Name           string      `json:"name"`
	Type           AssetType   `json:"type"`
	Status         AssetStatus `json:"status"`
	Cost           float64     `json:"cost"`
	ExpirationDate date.Date   `json:"expirationDate" swaggertype:"string" example:"2030-01-01"`
	Tags           []string    `json:"tags"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// AssetInput is what a caller supplies to create an asset.
type AssetInput struct {
	Name           string
	Type           AssetType
	Status         AssetStatus
	Cost           float64
	ExpirationDate date.Date
	Tags           []string
}

// AssetFilters narrows ListAssets. Zero values match everything.
type AssetFilters struct {
	Query  string
	Type   AssetType
	Status AssetStatus
}

func (a Asset) clone() Asset {
	a.Tags = append([]string(nil), a.Tags...)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}
