// Package models holds the records kept by the reference sync server. JSON
// field names match the client payloads so requests decode directly.
package models

import "time"

type Plant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species,omitempty"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CareLog struct {
	ID          string    `json:"id"`
	PlantID     string    `json:"plant_id"`
	Type        string    `json:"type"`
	Note        string    `json:"note,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	PlantID   string    `json:"plant_id,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Like struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Liked  bool   `json:"liked"`
}

// Memo is a stored response for an idempotency key.
type Memo struct {
	Key       string
	Method    string
	Body      []byte
	CreatedAt time.Time
}
