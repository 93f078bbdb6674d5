package session

import "time"

// Session is the signed-in account. AccountID scopes every asset operation.
type Session struct {
	AccountID string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          *string   `json:"name"`
	AvatarURL     *string   `json:"avatar_url"`
	StructureName string    `json:"structure_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Name          *string `json:"name"`
	AvatarURL     *string `json:"avatar_url"`
	StructureName *string `json:"structure_name"`
}

// SignedIn is returned by sign-in and sign-up.
type SignedIn struct {
	Session Session `json:"session"`
	Profile Profile `json:"profile"`
}
