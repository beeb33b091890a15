package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы подписки, хранящиеся в базе.
const (
	SubscriptionStatusPaid  = "paid"
	SubscriptionStatusTrial = "trial"
)

// Отображаемые статусы подписки. Порядок приоритетов:
// deactivated перекрывает истечение срока, истечение перекрывает
// предупреждение о скором окончании.
const (
	DisplayStatusDeactivated = "deactivated"
	DisplayStatusExpired     = "expired"
	DisplayStatusExpiring    = "expiring"
	DisplayStatusActive      = "active"
)

// Subscription связывает компанию с тарифным планом на ограниченный
// или неограниченный срок. Инвариант: IsTrial == (Status == "trial").
type Subscription struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	Status    string    `json:"status"`
	IsTrial   bool      `json:"is_trial"`
	TrialDays int       `json:"trial_days"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
// EndDate опциональна: пустое значение означает, что дату окончания нужно
// вычислить из плана и статуса оплаты компании.
type DummySubscription struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	PlanID    string `json:"plan_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=02-01-2006"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=02-01-2006"`
}

// SubscriptionInfo - строка списка подписок, обогащённая данными компании
// и плана, с вычисленным отображаемым статусом.
type SubscriptionInfo struct {
	Subscription
	CompanyName          string `json:"company_name"`
	CompanyStatus        string `json:"company_status"`
	CompanyPaymentStatus string `json:"-"`
	CompanyPaymentLabel  string `json:"company_payment_label"`
	PlanName            string `json:"plan_name"`
	PlanPrice           int    `json:"plan_price"`
	PlanTrialDays       int    `json:"plan_trial_days"`
	PlanIsLifetime      bool   `json:"plan_is_lifetime"`
	DisplayStatus       string `json:"display_status"`
	DaysLeft            int    `json:"days_left"`
}

// ExpiringSubscription - данные для уведомления о скором окончании подписки.
type ExpiringSubscription struct {
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	PlanName    string    `json:"plan_name"`
	EndDate     time.Time `json:"end_date"`
	DaysLeft    int       `json:"days_left"`
}
