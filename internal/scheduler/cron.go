package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер шестипольных cron-выражений (с секундами):
// "секунды минуты часы дни месяцы дни_недели".
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// cronSpec собирает итоговую строку выражения с учётом timezone.
//
// Timezone задаётся через префикс CRON_TZ — время срабатывания
// вычисляется в этой зоне независимо от зоны процесса.
func cronSpec(expr, timezone string) (string, error) {
	if err := ValidateTrigger(expr, timezone); err != nil {
		return "", err
	}
	if timezone == "" {
		return expr, nil
	}
	return "CRON_TZ=" + timezone + " " + expr, nil
}

// ValidateTrigger проверяет cron-выражение и IANA timezone.
func ValidateTrigger(expr, timezone string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}
	return nil
}

// NextAfter вычисляет ближайшее срабатывание выражения после from.
// Используется для валидации и вывода в ops API.
func NextAfter(expr, timezone string, from time.Time) (time.Time, error) {
	if err := ValidateTrigger(expr, timezone); err != nil {
		return time.Time{}, err
	}

	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		loc = l
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}

	return schedule.Next(from.In(loc)), nil
}
