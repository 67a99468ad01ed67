package document

import (
	"time"

	"github.com/campushq/campus/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("document not found")
)

// Types of stored content; also selects the upload subdirectory and the
// allowed file types in the file store.
const (
	TypeDocument  = "document"
	TypeSyllabus  = "syllabus"
	TypeDatesheet = "datesheet"
	TypeResult    = "result"
	TypeForm      = "form"
	TypeGallery   = "gallery"
	TypeAbout     = "about"
	TypeNews      = "news"
	TypeEvent     = "event"
	TypeProfile   = "profile"
)

type Document struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Term         int        `json:"term,omitempty"`
	FileURL      string     `json:"file_url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"` // UTC
	UpdatedAt    time.Time  `json:"updated_at"` // UTC
}

type NewDocument struct {
	Type         string     `json:"type" validate:"required,oneof=document syllabus datesheet result form gallery about news event profile"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	Term         int        `json:"term" validate:"omitempty,min=1"`
	FileURL      string     `json:"file_url" validate:"required,url"`
	ThumbnailURL string     `json:"thumbnail_url" validate:"omitempty,url"`
	EventDate    *time.Time `json:"event_date"`
}

type UpdateDocument struct {
	Type         string     `json:"type" validate:"omitempty,oneof=document syllabus datesheet result form gallery about news event profile"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Term         int        `json:"term" validate:"omitempty,min=1"`
	FileURL      string     `json:"file_url" validate:"omitempty,url"`
	ThumbnailURL string     `json:"thumbnail_url" validate:"omitempty,url"`
	EventDate    *time.Time `json:"event_date"`
}

// QueryFilter narrows and paginates document listings.
// Search does a case-insensitive match on Title or Description.
type QueryFilter struct {
	Type   string
	Search string
	Page   int
	Limit  int
}

type Page struct {
	Items []Document `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Pages int        `json:"pages"`
}
