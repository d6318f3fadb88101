package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Favorite is a user's bookmark of a sample. At most one exists per
// (user, sample) pair; the database enforces it.
type Favorite struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	SampleID  int64     `json:"sampleId" db:"sample_id"`
	Sample    *Sample   `json:"sample,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateFavoriteRequest carries the sample to favorite.
type CreateFavoriteRequest struct {
	SampleID int64 `json:"sampleId"`
}

// Validate checks the favorite payload shape.
func (r CreateFavoriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SampleID, validation.Required, validation.Min(int64(1))),
	)
}
