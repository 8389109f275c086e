package domain

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PresetToday restricts a run to the current calendar day.
const PresetToday = "today"

// ReconcileFilters selects the records loaded for a run. Zero values mean
// "no restriction".
type ReconcileFilters struct {
	Branch   string    `json:"branch,omitempty"` // canonical store name
	FromDate time.Time `json:"from_date,omitempty"`
	ToDate   time.Time `json:"to_date,omitempty"`
	Preset   string    `json:"preset,omitempty"`
}

// Validate checks the filter combination.
func (f ReconcileFilters) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Preset, validation.In(PresetToday)),
		validation.Field(&f.ToDate, validation.By(func(value interface{}) error {
			to, _ := value.(time.Time)
			if to.IsZero() || f.FromDate.IsZero() {
				return nil
			}
			if to.Before(f.FromDate) {
				return errors.New("must not be before from_date")
			}
			return nil
		})),
	)
}

// DateRange returns the effective inclusive calendar-day bounds. A zero bound
// leaves that side open. The today preset overrides both bounds.
func (f ReconcileFilters) DateRange(now time.Time) (from, to time.Time) {
	if f.Preset == PresetToday {
		day := truncateDay(now)
		return day, day
	}
	if !f.FromDate.IsZero() {
		from = truncateDay(f.FromDate)
	}
	if !f.ToDate.IsZero() {
		to = truncateDay(f.ToDate)
	}
	return from, to
}

// InRange reports whether the calendar day of t lies within the bounds. Open
// bounds accept any date; a missing date is outside every bounded range.
func (f ReconcileFilters) InRange(t time.Time) bool {
	if f.FromDate.IsZero() && f.ToDate.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	day := t.Format(time.DateOnly)
	if !f.FromDate.IsZero() && day < f.FromDate.Format(time.DateOnly) {
		return false
	}
	if !f.ToDate.IsZero() && day > f.ToDate.Format(time.DateOnly) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
