package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы длительности тарифного плана.
const (
	DurationDay      = "day"
	DurationMonth    = "month"
	DurationYear     = "year"
	DurationLifetime = "lifetime"
)

// Plan представляет тарифный план: пробный, на фиксированный срок или бессрочный.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Price        int       `json:"price"` // Цена в минимальных единицах валюты
	IsTrial      bool      `json:"is_trial"`
	TrialDays    int       `json:"trial_days"`
	Duration     int       `json:"duration"`
	DurationType string    `json:"duration_type"`
	IsLifetime   bool      `json:"is_lifetime"`
	IsActive     bool      `json:"is_active"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

// Normalize приводит взаимоисключающие поля плана к согласованному виду:
// бессрочный план не имеет срока, непробный план не имеет пробных дней.
func (p *Plan) Normalize() {
	if p.IsLifetime {
		p.Duration = 0
		p.DurationType = DurationLifetime
	}
	if !p.IsTrial {
		p.TrialDays = 0
	}
}

// DummyPlan используется для приёма данных плана из JSON-запроса.
type DummyPlan struct {
	Name         string `json:"name" validate:"required"`
	Price        int    `json:"price" validate:"gte=0"`
	IsTrial      bool   `json:"is_trial"`
	TrialDays    int    `json:"trial_days" validate:"gte=0"`
	Duration     int    `json:"duration" validate:"gte=0"`
	DurationType string `json:"duration_type" validate:"omitempty,oneof=day month year lifetime"`
	IsLifetime   bool   `json:"is_lifetime"`
	IsActive     bool   `json:"is_active"`
	IsDefault    bool   `json:"is_default"`
}
