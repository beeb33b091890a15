package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы обращения.
const (
	InquiryStatusPending    = "pending"
	InquiryStatusInProgress = "in-progress"
	InquiryStatusResolved   = "resolved"
)

// Inquiry представляет обращение потенциального клиента из публичной формы.
type Inquiry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DummyInquiry используется для приёма данных обращения из JSON-запроса.
type DummyInquiry struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=pending in-progress resolved"`
}
