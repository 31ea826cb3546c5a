package domain

import "time"

type BookingRequest struct {
	CustomerEmail  string  `json:"customer_email"`
	TrainNumber    string  `json:"train_number"`
	JourneyDate    string  `json:"journey_date"`
	TravelClass    string  `json:"travel_class"`
	SeatsRequested int     `json:"seats"`
	Fare           float64 `json:"fare"`
}

// Booking is a ledger entry. It is created once per successful reservation
// and never mutated afterwards.
type Booking struct {
	TransactionID string    `json:"transaction_id"`
	CustomerEmail string    `json:"customer_email"`
	TrainNumber   string    `json:"train_number"`
	JourneyDate   string    `json:"journey_date"`
	TravelClass   string    `json:"travel_class,omitempty"`
	FromStation   string    `json:"from_station"`
	ToStation     string    `json:"to_station"`
	SeatsBooked   int       `json:"seats_booked"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
