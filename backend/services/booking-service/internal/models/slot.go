package models

// TimeSlot is one half-hour window on the booking grid.
type TimeSlot struct {
	Time        string `json:"time"`
	IsAvailable bool   `json:"isAvailable"`
}
