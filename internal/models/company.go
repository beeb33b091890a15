// Package models содержит доменные структуры админ-панели: компании, тарифные
// планы, подписки, обращения и отзывы, а также вспомогательные типы для приёма
// данных из JSON-запросов (Dummy*). Даты в Dummy-структурах приходят строками,
// чтобы их можно было валидировать и парсить вручную.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы компании.
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Статусы оплаты компании. Значение "trial" хранится в базе,
// но администратору показывается как "unpaid" - словари исторически разные,
// бэкенд и витрина не унифицированы намеренно.
const (
	PaymentStatusPaid  = "paid"
	PaymentStatusTrial = "trial"

	PaymentLabelPaid   = "paid"
	PaymentLabelUnpaid = "unpaid"
)

// Company представляет компанию-арендатора, клиентов которой просят
// оставить отзыв в Google.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Category      string    `json:"category"`
	Address       string    `json:"address"`
	Description   string    `json:"description"`
	PlaceID       string    `json:"place_id"` // Google Place ID для ссылки на отзыв
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsActive сообщает, активна ли компания.
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// IsPaid сообщает, считается ли компания оплаченной.
// Неактивная компания всегда считается неоплаченной, независимо от
// сохранённого payment_status.
func (c *Company) IsPaid() bool {
	return c.Status == CompanyStatusActive && c.PaymentStatus == PaymentStatusPaid
}

// PaymentStatusLabel возвращает отображаемый статус оплаты ("paid"/"unpaid").
func (c *Company) PaymentStatusLabel() string {
	if c.IsPaid() {
		return PaymentLabelPaid
	}
	return PaymentLabelUnpaid
}

// DummyCompany используется для приёма данных компании из JSON-запроса.
type DummyCompany struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	PlaceID     string `json:"place_id,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
