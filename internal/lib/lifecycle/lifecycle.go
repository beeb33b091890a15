// Package lifecycle вычисляет сроки действия подписок и их отображаемый
// статус. Вся арифметика ведётся в целых календарных днях: месяц считается
// за 30 дней, год за 365, бессрочный план аппроксимируется 100 годами.
// Точность по календарю здесь не нужна - даты обязаны совпадать с датами
// исходной системы, которая считает так же.
package lifecycle

import (
	"time"

	"github.com/magabrotheeeer/review-dashboard/internal/models"
)

const (
	// LifetimeDays - срок "бессрочной" подписки в днях (100 лет).
	LifetimeDays = 36500
	// FallbackTrialDays - пробный срок, если план его не объявил.
	FallbackTrialDays = 7
	// ExpiringThresholdDays - за сколько дней подписка считается истекающей.
	ExpiringThresholdDays = 3

	daysInMonth         = 30
	daysInYear          = 365
	defaultDurationDays = 30
)

// ComputeEndDate вычисляет дату окончания подписки по плану, дате начала и
// статусу оплаты компании. Функция чистая: результат зависит только от
// аргументов.
func ComputeEndDate(plan models.Plan, startDate time.Time, companyIsPaid bool) time.Time {
	var days int
	switch {
	case !companyIsPaid:
		days = plan.TrialDays
		if days <= 0 {
			days = FallbackTrialDays
		}
	case plan.IsLifetime:
		days = LifetimeDays
	default:
		switch plan.DurationType {
		case models.DurationDay:
			days = plan.Duration
		case models.DurationMonth:
			days = plan.Duration * daysInMonth
		case models.DurationYear:
			days = plan.Duration * daysInYear
		default:
			days = defaultDurationDays
		}
	}
	return startDate.AddDate(0, 0, days)
}

// DeriveStatus вычисляет отображаемый статус подписки и количество оставшихся
// дней. Приоритет статусов фиксирован: deactivated перекрывает expired,
// expired перекрывает expiring.
//
// Для пробных подписок действующий срок отсчитывается от даты начала по
// количеству пробных дней (день начала считается первым днём), для остальных
// берётся сохранённая дата окончания.
func DeriveStatus(sub models.Subscription, companyActive bool, planTrialDays int, now time.Time) (string, int) {
	if !companyActive {
		return models.DisplayStatusDeactivated, 0
	}

	end := sub.EndDate
	if sub.IsTrial || sub.Status == models.SubscriptionStatusTrial {
		trialDays := sub.TrialDays
		if trialDays <= 0 {
			trialDays = planTrialDays
		}
		end = sub.StartDate.AddDate(0, 0, trialDays-1)
	}

	if truncateDay(now).After(truncateDay(end)) {
		return models.DisplayStatusExpired, 0
	}

	daysLeft := DaysBetween(now, end)
	if daysLeft < ExpiringThresholdDays {
		return models.DisplayStatusExpiring, daysLeft
	}
	return models.DisplayStatusActive, daysLeft
}

// DaysBetween возвращает количество целых дней от from до to,
// время суток не учитывается. Результат не бывает отрицательным.
func DaysBetween(from, to time.Time) int {
	days := int(truncateDay(to).Sub(truncateDay(from)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
