package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sample is a short audio clip belonging to a library. FavoriteCount and
// Favorited are derived per request; Favorited reflects the viewer.
type Sample struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	LibraryID     int64     `json:"libraryId" db:"library_id"`
	SourceURL     string    `json:"sourceUrl" db:"source_url"`
	DurationSecs  int       `json:"durationSecs" db:"duration_secs"`
	Tags          []string  `json:"tags" db:"tags"`
	PlayCount     int64     `json:"playCount" db:"play_count"`
	FavoriteCount int64     `json:"favoriteCount"`
	Favorited     bool      `json:"favorited"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateSampleRequest carries the fields needed to add a sample to a library.
type CreateSampleRequest struct {
	Name         string   `json:"name"`
	SourceURL    string   `json:"sourceUrl"`
	DurationSecs int      `json:"durationSecs"`
	Tags         []string `json:"tags"`
}

// Validate enforces the sample input limits.
func (r CreateSampleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.SourceURL, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.DurationSecs, validation.Min(0), validation.Max(600)),
		validation.Field(&r.Tags, validation.Length(0, 10), validation.Each(validation.Length(1, 30))),
	)
}
