package models

// Category is a fixed taxonomy node libraries are classified under.
type Category struct {
	ID           int64  `json:"id" db:"id"`
	Slug         string `json:"slug" db:"slug"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	DisplayOrder int    `json:"displayOrder" db:"display_order"`
}

// CategoryStats holds the derived counts shown on a category page.
type CategoryStats struct {
	SampleCount      int64 `json:"sampleCount"`
	LibraryCount     int64 `json:"libraryCount"`
	ContributorCount int64 `json:"contributorCount"`
}
