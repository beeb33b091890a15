package models

import (
	"time"

	"github.com/google/uuid"
)

// Review представляет заготовленный текст отзыва компании. Посетитель
// публичной страницы копирует текст и переходит в форму отзыва Google.
type Review struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyReview используется для приёма данных отзыва из JSON-запроса.
type DummyReview struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Author    string `json:"author" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text      string `json:"text" validate:"required"`
}
