package ports

import (
	"context"

	"github.com/srgjo27/rail_booking/internal/core/domain"
)

// TrainInventory owns the per-train seat counter. TryReserve must be atomic
// against concurrent callers on the same train.
type TrainInventory interface {
	GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error)
	GetSeats(ctx context.Context, trainNumber string) (int, error)
	TryReserve(ctx context.Context, trainNumber string, count int) (bool, error)
	Restore(ctx context.Context, trainNumber string, count int) error
}

type BookingLedger interface {
	Append(ctx context.Context, booking *domain.Booking) (string, error)
	FindByCustomer(ctx context.Context, customerEmail string) ([]domain.Booking, error)
}

type TrainCatalog interface {
	GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error)
	ListTrains(ctx context.Context) ([]domain.Train, error)
	SearchBetween(ctx context.Context, fromStation, toStation string) ([]domain.Train, error)
	AddTrain(ctx context.Context, train *domain.Train) error
	// UpdateTrain changes name, stations and fare. Seats only move through
	// TryReserve and Restore.
	UpdateTrain(ctx context.Context, train *domain.Train) error
	DeleteTrain(ctx context.Context, trainNumber string) error
}

// SoldSeatCounter reports seats held by recorded bookings, per train.
type SoldSeatCounter interface {
	SoldSeats(ctx context.Context) (map[string]int, error)
}

// TrainSeeder is implemented by inventories that live outside the catalog
// store and must be told about new trains.
type TrainSeeder interface {
	SeedTrain(ctx context.Context, train *domain.Train) (bool, error)
	UpdateDetails(ctx context.Context, train *domain.Train) error
	RemoveTrain(ctx context.Context, trainNumber string) error
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error
}

type SeededInventory interface {
	TrainInventory
	TrainSeeder
}
