package checkout

import (
	"slices"
	"time"

	"github.com/yeremiapane/bakery-app/models"
)

// Calendar decides which days can be picked for pickup or delivery.
type Calendar struct {
	ClosedWeekday time.Weekday
	HorizonDays   int
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dates lists the selectable days from tomorrow until the horizon.
func (c Calendar) Dates(now time.Time) []time.Time {
	first := startOfDay(now).AddDate(0, 0, 1)
	out := make([]time.Time, 0, max(c.HorizonDays, 0))
	for i := 0; i < c.HorizonDays; i++ {
		day := first.AddDate(0, 0, i)
		if day.Weekday() == c.ClosedWeekday {
			continue
		}
		out = append(out, day)
	}
	return out
}

// Selectable reports whether date (YYYY-MM-DD) can be chosen at now.
func (c Calendar) Selectable(date string, now time.Time) bool {
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	first := startOfDay(now).AddDate(0, 0, 1)
	last := first.AddDate(0, 0, c.HorizonDays-1)
	if day.Before(first) || day.After(last) {
		return false
	}
	return day.Weekday() != c.ClosedWeekday
}

// AvailableSlots returns the slots not yet claimed by a home delivery on date.
// Pickup orders never claim a slot.
func AvailableSlots(all []string, orders []models.Order, date string) []string {
	taken := make(map[string]bool)
	for _, o := range orders {
		if o.DeliveryType == models.DeliveryHome && o.DeliveryDate == date {
			taken[o.DeliveryTime] = true
		}
	}
	out := make([]string, 0, len(all))
	for _, slot := range all {
		if !taken[slot] {
			out = append(out, slot)
		}
	}
	return out
}

// SlotAvailable reports whether slot is offered for the given delivery type on date.
func SlotAvailable(all []string, orders []models.Order, date, slot string, kind models.DeliveryType) bool {
	if kind == models.DeliveryPickup {
		return slices.Contains(all, slot)
	}
	return slices.Contains(AvailableSlots(all, orders, date), slot)
}
