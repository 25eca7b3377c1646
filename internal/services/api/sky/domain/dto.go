// Package domain holds DTOs and ports for the sky of wishes
package domain

import "memorial/internal/core/sky"

// WishInput is the body of a wish submission
type WishInput struct {
	Text       string `json:"wish_text" validate:"required,max=400" example:"Que tu luz nos guíe siempre"`
	StyleIndex *int   `json:"style_index" validate:"required,min=0,max=5" example:"2"`
}

// RecentInput bounds a history read
type RecentInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=20" example:"20"`
}

// NoticeKind is the outcome class of a submission
type NoticeKind string

const (
	// NoticeSuccess means the wish was stored and is in the window
	NoticeSuccess NoticeKind = "success"
	// NoticeFailure means the backend refused or could not be reached
	NoticeFailure NoticeKind = "failure"
	// NoticeRejected means the input never left the view
	NoticeRejected NoticeKind = "rejected"
)

// Notice is the transient acknowledgment shown after a submission
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	WishID  int64      `json:"wish_id,omitempty"`
	Motif   *sky.Motif `json:"motif,omitempty"`
}

// OK reports whether the notice is a success
func (n Notice) OK() bool { return n.Kind == NoticeSuccess }

// Composer is the state of the wish composition dialog
type Composer struct {
	Text  string `json:"wish_text"`
	Style int    `json:"style_index"`
	Open  bool   `json:"open"`
}

// SubmitResult is what a live view answers to a submission
type SubmitResult struct {
	Notice   Notice   `json:"notice"`
	Composer Composer `json:"composer"`
}

// Snapshot is the render state of one live view
type Snapshot struct {
	ViewID string      `json:"view_id"`
	Live   bool        `json:"live"`
	Tokens []sky.Token `json:"tokens"`
}

// Hello opens a live view stream
type Hello struct {
	ViewID string      `json:"view_id"`
	Live   bool        `json:"live"`
	Stars  []sky.Star  `json:"stars"`
	Motifs []sky.Motif `json:"motifs"`
}
