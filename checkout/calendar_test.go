package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/bakery-app/models"
)

// Thursday.
var now = time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)

func TestCalendarDates(t *testing.T) {
	cal := Calendar{ClosedWeekday: time.Monday, HorizonDays: 14}
	dates := cal.Dates(now)

	assert.Len(t, dates, 12)
	assert.Equal(t, "2026-10-16", dates[0].Format(models.DateLayout))
	for _, d := range dates {
		assert.NotEqual(t, time.Monday, d.Weekday())
		assert.True(t, d.After(now))
	}
}

func TestCalendarWithoutHorizon(t *testing.T) {
	for _, days := range []int{0, -3} {
		cal := Calendar{ClosedWeekday: time.Monday, HorizonDays: days}
		assert.NotPanics(t, func() { assert.Empty(t, cal.Dates(now)) })
		assert.False(t, cal.Selectable("2026-10-16", now))
	}
}

func TestCalendarSelectable(t *testing.T) {
	cal := Calendar{ClosedWeekday: time.Monday, HorizonDays: 30}

	assert.False(t, cal.Selectable("2026-10-15", now), "today")
	assert.False(t, cal.Selectable("2026-10-14", now), "past")
	assert.True(t, cal.Selectable("2026-10-16", now), "tomorrow")
	assert.False(t, cal.Selectable("2026-10-19", now), "closed Monday")
	assert.False(t, cal.Selectable("2026-10-26", now), "closed Monday")
	assert.True(t, cal.Selectable("2026-11-14", now), "last day of horizon")
	assert.False(t, cal.Selectable("2026-11-15", now), "beyond horizon")
	assert.False(t, cal.Selectable("16/10/2026", now))
}

func TestClosedWeekdayNeverSelectable(t *testing.T) {
	for closed := time.Sunday; closed <= time.Saturday; closed++ {
		cal := Calendar{ClosedWeekday: closed, HorizonDays: 21}
		for _, d := range cal.Dates(now) {
			assert.NotEqual(t, closed, d.Weekday())
		}
	}
}

func TestAvailableSlots(t *testing.T) {
	all := []string{"09:00", "10:00", "11:00"}
	orders := []models.Order{
		{DeliveryType: models.DeliveryHome, DeliveryDate: "2026-10-20", DeliveryTime: "10:00"},
		{DeliveryType: models.DeliveryPickup, DeliveryDate: "2026-10-20", DeliveryTime: "11:00"},
		{DeliveryType: models.DeliveryHome, DeliveryDate: "2026-10-21", DeliveryTime: "09:00"},
	}

	assert.Equal(t, []string{"09:00", "11:00"}, AvailableSlots(all, orders, "2026-10-20"))
	assert.Equal(t, []string{"10:00", "11:00"}, AvailableSlots(all, orders, "2026-10-21"))
	assert.Equal(t, all, AvailableSlots(all, orders, "2026-10-22"))

	assert.False(t, SlotAvailable(all, orders, "2026-10-20", "10:00", models.DeliveryHome))
	assert.True(t, SlotAvailable(all, orders, "2026-10-20", "10:00", models.DeliveryPickup))
	assert.False(t, SlotAvailable(all, orders, "2026-10-20", "13:00", models.DeliveryPickup))
}
