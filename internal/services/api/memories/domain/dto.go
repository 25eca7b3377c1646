// Package domain holds DTOs and ports for the memory tree
package domain

import (
	"io"
	"time"
)

// MaxTitleLen bounds a memory title, in characters
const MaxTitleLen = 200

// Memory is one photo on the memory tree
type Memory struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ListInput bounds a tree read
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// UploadInput is one photo upload
// Body must seek so the object store can checksum it before sending
type UploadInput struct {
	Title       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// Uploaded acknowledges a stored memory
type Uploaded struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Memory  Memory `json:"memory"`
}
