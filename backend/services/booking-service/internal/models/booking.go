package models

import "time"

// BookingStatusConfirmed is the only stored status; cancelled bookings are deleted.
const BookingStatusConfirmed = "confirmed"

// Booking is a confirmed charging slot reservation owned by one user.
type Booking struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	StationID      int64     `json:"stationId"`
	StationName    string    `json:"stationName"`
	StationAddress string    `json:"stationAddress"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	ChargerType    string    `json:"chargerType"`
	Price          float64   `json:"price"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"paymentMethod"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BookingView is a booking plus fields derived at read time.
type BookingView struct {
	Booking
	Past bool `json:"past"`
}

// PaymentInfo is the card summary captured at checkout. Only the last four digits are kept.
type PaymentInfo struct {
	CardType   string `json:"cardType"`
	CardLast4  string `json:"cardLast4"`
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber,omitempty"`
}

// BookingEvent is published on the events feed when the ledger changes.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"bookingId"`
	StationID int64     `json:"stationId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	At        time.Time `json:"at"`
}

// Booking event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)
