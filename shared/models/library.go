package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Library is a named, user-owned collection of samples under one category.
type Library struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CategoryID  int64     `json:"categoryId" db:"category_id"`
	OwnerID     int64     `json:"ownerId" db:"owner_id"`
	IsPublic    bool      `json:"isPublic" db:"is_public"`
	IconURL     string    `json:"iconUrl,omitempty" db:"icon_url"`
	SampleCount int64     `json:"sampleCount"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateLibraryRequest carries the fields needed to create a library.
type CreateLibraryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
	IconURL     string `json:"iconUrl"`
}

// Validate enforces the library input limits.
func (r CreateLibraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.CategoryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.IconURL, validation.Length(0, 500)),
	)
}

// UpdateLibraryRequest carries a partial library update. Nil fields are
// left untouched.
type UpdateLibraryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
	IconURL     *string `json:"iconUrl,omitempty"`
}

// Validate enforces the same limits as creation for any field present.
func (r UpdateLibraryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.CategoryID, validation.Min(int64(1))),
		validation.Field(&r.IconURL, validation.Length(0, 500)),
	)
}
