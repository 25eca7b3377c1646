// Package domain holds DTOs and ports for the wall of light guestbook
package domain

import "time"

// Bounds on a candle's text, in characters
const (
	MaxNameLen    = 80
	MaxMessageLen = 500
)

// Candle is one lit candle on the wall
type Candle struct {
	ID          int64     `json:"id"`
	VisitorName string    `json:"visitor_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// LightInput is the body of a new candle
type LightInput struct {
	VisitorName string `json:"visitor_name" validate:"required,max=320" example:"Ana"`
	Message     string `json:"message" validate:"required,max=2000" example:"Siempre en nuestro corazón"`
}

// ListInput bounds a wall read
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"200"`
}

// LitNotice is the acknowledgment returned with a freshly lit candle
type LitNotice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Candle  Candle `json:"candle"`
}
