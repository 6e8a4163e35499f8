package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"evcharge/backend/services/booking-service/internal/models"
)

// Slot grid: 07:00 through 21:30 in 30-minute steps.
const (
	FirstSlotHour  = 7
	LastSlotHour   = 22
	SlotMinutes    = 30
	SlotsPerDay    = (LastSlotHour - FirstSlotHour) * 60 / SlotMinutes
	availableAbove = 30
	dateLayout     = "2006-01-02"
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, validationError("invalid date %q", date)
	}
	return t, nil
}

// ParseClock parses "HH:MM" and returns hour and minute. Both parts must be exactly two
// ASCII digits.
func ParseClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 || !twoDigits(parts[0]) || !twoDigits(parts[1]) {
		return 0, 0, validationError("invalid time %q", clock)
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	if hour > 23 || minute > 59 {
		return 0, 0, validationError("invalid time %q", clock)
	}
	return hour, minute, nil
}

// CanonicalClock returns clock rewritten as zero-padded "HH:MM".
func CanonicalClock(clock string) (string, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// DaySeed is stationID + day of month + zero-based month index.
func DaySeed(stationID int64, date time.Time) int64 {
	return stationID + int64(date.Day()) + int64(date.Month()-1)
}

// SlotTimes lists the grid labels in order.
func SlotTimes() []string {
	out := make([]string, 0, SlotsPerDay)
	for hour := FirstSlotHour; hour < LastSlotHour; hour++ {
		for minute := 0; minute < 60; minute += SlotMinutes {
			out = append(out, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return out
}

// OnGrid reports whether clock is one of the slot labels.
func OnGrid(clock string) bool {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return false
	}
	return hour >= FirstSlotHour && hour < LastSlotHour && minute%SlotMinutes == 0
}

// GenerateSlots returns the day's slots for a station. Availability is a pure function of
// (stationID, date): (first character code of the label * seed) mod 100 > 30.
func GenerateSlots(stationID int64, date string) ([]models.TimeSlot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	seed := DaySeed(stationID, day)

	times := SlotTimes()
	slots := make([]models.TimeSlot, 0, len(times))
	for _, label := range times {
		hash := (int64(label[0]) * seed) % 100
		slots = append(slots, models.TimeSlot{
			Time:        label,
			IsAvailable: hash > availableAbove,
		})
	}
	return slots, nil
}
