package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFAQRequest struct {
	Question    string `json:"question" validate:"required,max=500"`
	Answer      string `json:"answer" validate:"required"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsPublished *bool  `json:"is_published"`
}

type UpdateFAQRequest struct {
	Question    string `json:"question" validate:"required,max=500"`
	Answer      string `json:"answer" validate:"required"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsPublished *bool  `json:"is_published"`
}

type FAQResponse struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
