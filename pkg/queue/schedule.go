package queue

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard 5-field syntax, an optional leading seconds field,
// and descriptors such as "@hourly" or "@every 30s".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a cron expression.
// A schedule that can never match (e.g. February 30th) parses fine; its Next returns the zero time.
func ParseSchedule(expr string) (cron.Schedule, error) {
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, fmt.Errorf("%q: %w", expr, err))
	}
	return s, nil
}

// Expression builders for the common cases. They all produce strings accepted by ParseSchedule.

// EveryInterval runs at a fixed interval measured from the scheduler start
func EveryInterval(d time.Duration) string {
	return "@every " + d.String()
}

// EveryMinute runs at second zero of every minute
func EveryMinute() string {
	return "* * * * *"
}

// EveryMinutes runs every n minutes, aligned to the hour
func EveryMinutes(n int) string {
	return fmt.Sprintf("*/%d * * * *", n)
}

// Hourly runs every hour at :00
func Hourly() string {
	return "0 * * * *"
}

// HourlyAt runs every hour at the given minute
func HourlyAt(minute int) string {
	return fmt.Sprintf("%d * * * *", minute)
}

// DailyAt runs once a day at the given time
func DailyAt(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// Daily runs once a day at midnight
func Daily() string {
	return DailyAt(0, 0)
}

// WeeklyOn runs once a week on the given day and time
func WeeklyOn(weekday time.Weekday, hour, minute int) string {
	return fmt.Sprintf("%d %d * * %d", minute, hour, int(weekday))
}

// MonthlyOn runs once a month on the given day and time.
// Months without that day are skipped, e.g. day 31 never fires in April.
func MonthlyOn(day, hour, minute int) string {
	return fmt.Sprintf("%d %d %d * *", minute, hour, day)
}
