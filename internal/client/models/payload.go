package models

import "time"

// Plant is the payload of create_plant and update_plant. ID is assigned by
// the client so later actions (care logs, posts) can reference it before the
// plant exists remotely.
type Plant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species,omitempty"`
	Location  string `json:"location,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// PlantRef is the payload of delete_plant.
type PlantRef struct {
	ID string `json:"id"`
}

// CareLog records a watering, fertilizing, repotting... event for a plant.
type CareLog struct {
	ID          string    `json:"id"`
	PlantID     string    `json:"plant_id"`
	Type        string    `json:"type"`
	Note        string    `json:"note,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
	ImagePath   string    `json:"image_path,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Post is a community feed entry.
type Post struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	PlantID   string `json:"plant_id,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// UserProfile is the payload of update_user.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarPath  string `json:"avatar_path,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Like is the payload of toggle_like.
type Like struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
}

// LikeResult is what the remote side reports after a toggle.
type LikeResult struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Liked  bool   `json:"liked"`
}
