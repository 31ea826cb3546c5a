package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/ports"
)

// TrainService serves the train catalog. When the seat inventory lives in a
// separate store, seat counts are taken from there.
type TrainService struct {
	catalog  ports.TrainCatalog
	external ports.SeededInventory
	log      *slog.Logger
}

func NewTrainService(catalog ports.TrainCatalog, external ports.SeededInventory, log *slog.Logger) *TrainService {
	return &TrainService{
		catalog:  catalog,
		external: external,
		log:      log,
	}
}

func (s *TrainService) GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error) {
	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		return nil, domain.InvalidInput("train number is required")
	}

	train, err := s.catalog.GetTrain(ctx, trainNumber)
	if err != nil {
		return nil, s.storeErr("get train", err)
	}

	if err := s.refreshSeats(ctx, train); err != nil {
		return nil, err
	}

	return train, nil
}

func (s *TrainService) ListTrains(ctx context.Context) ([]domain.Train, error) {
	trains, err := s.catalog.ListTrains(ctx)
	if err != nil {
		return nil, s.storeErr("list trains", err)
	}

	return s.refreshAll(ctx, trains)
}

// SearchBetween finds trains running from one station to another.
func (s *TrainService) SearchBetween(ctx context.Context, fromStation, toStation string) ([]domain.Train, error) {
	fromStation = strings.TrimSpace(fromStation)
	toStation = strings.TrimSpace(toStation)
	if fromStation == "" || toStation == "" {
		return nil, domain.InvalidInput("both from and to stations are required")
	}

	trains, err := s.catalog.SearchBetween(ctx, fromStation, toStation)
	if err != nil {
		return nil, s.storeErr("search trains", err)
	}

	return s.refreshAll(ctx, trains)
}

func (s *TrainService) AddTrain(ctx context.Context, train domain.Train) (*domain.Train, error) {
	train.Number = strings.TrimSpace(train.Number)
	train.Name = strings.TrimSpace(train.Name)
	train.FromStation = strings.TrimSpace(train.FromStation)
	train.ToStation = strings.TrimSpace(train.ToStation)

	if err := validateTrain(train); err != nil {
		return nil, err
	}

	if err := s.catalog.AddTrain(ctx, &train); err != nil {
		return nil, s.storeErr("add train", err)
	}

	if s.external != nil {
		if _, err := s.external.SeedTrain(ctx, &train); err != nil {
			s.log.Error("seed inventory failed", "train_number", train.Number, "err", err)
			return nil, fmt.Errorf("seed inventory: %w", domain.ErrStoreUnavailable)
		}
	}

	s.log.Info("train added", "train_number", train.Number, "seats", train.AvailableSeats)

	return &train, nil
}

// UpdateTrain changes name, stations and fare. Any seat count in train is
// ignored: seats move only through reservations and their compensation.
func (s *TrainService) UpdateTrain(ctx context.Context, trainNumber string, train domain.Train) (*domain.Train, error) {
	train.Number = strings.TrimSpace(trainNumber)
	train.Name = strings.TrimSpace(train.Name)
	train.FromStation = strings.TrimSpace(train.FromStation)
	train.ToStation = strings.TrimSpace(train.ToStation)
	train.AvailableSeats = 0

	if err := validateTrain(train); err != nil {
		return nil, err
	}

	if err := s.catalog.UpdateTrain(ctx, &train); err != nil {
		return nil, s.storeErr("update train", err)
	}

	if s.external != nil {
		err := s.external.UpdateDetails(ctx, &train)
		switch {
		case errors.Is(err, domain.ErrTrainNotFound):
			s.log.Warn("train missing from inventory, details not copied", "train_number", train.Number)
		case err != nil:
			s.log.Error("update inventory details failed", "train_number", train.Number, "err", err)
			return nil, fmt.Errorf("update inventory: %w", domain.ErrStoreUnavailable)
		}
	}

	s.log.Info("train updated", "train_number", train.Number)

	return s.GetTrain(ctx, train.Number)
}

// DeleteTrain removes a train that has no bookings.
func (s *TrainService) DeleteTrain(ctx context.Context, trainNumber string) error {
	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		return domain.InvalidInput("train number is required")
	}

	if err := s.catalog.DeleteTrain(ctx, trainNumber); err != nil {
		return s.storeErr("delete train", err)
	}

	if s.external != nil {
		if err := s.external.RemoveTrain(ctx, trainNumber); err != nil {
			s.log.Error("remove train from inventory failed", "train_number", trainNumber, "err", err)
			return fmt.Errorf("remove inventory: %w", domain.ErrStoreUnavailable)
		}
	}

	s.log.Info("train deleted", "train_number", trainNumber)

	return nil
}

// WarmInventory copies catalog trains the external inventory has not seen.
// The catalog holds capacity, so each train is seeded with capacity minus
// the seats already recorded in the ledger. A flushed inventory is rebuilt
// without reselling booked seats. It returns how many trains were written.
func (s *TrainService) WarmInventory(ctx context.Context, ledger ports.SoldSeatCounter) (int, error) {
	if s.external == nil {
		return 0, nil
	}

	trains, err := s.catalog.ListTrains(ctx)
	if err != nil {
		return 0, fmt.Errorf("list trains: %w", err)
	}

	sold, err := ledger.SoldSeats(ctx)
	if err != nil {
		return 0, fmt.Errorf("sold seats: %w", err)
	}

	seeded := 0
	for i := range trains {
		t := &trains[i]
		t.AvailableSeats = max(t.AvailableSeats-sold[t.Number], 0)

		ok, err := s.external.SeedTrain(ctx, t)
		if err != nil {
			return seeded, fmt.Errorf("seed train %s: %w", t.Number, err)
		}
		if ok {
			seeded++
			s.log.Info("train seeded", "train_number", t.Number, "seats", t.AvailableSeats, "sold", sold[t.Number])
		}
	}

	s.log.Info("inventory ready", "trains", len(trains), "seeded", seeded)
	return seeded, nil
}

func (s *TrainService) refreshAll(ctx context.Context, trains []domain.Train) ([]domain.Train, error) {
	if trains == nil {
		return []domain.Train{}, nil
	}

	for i := range trains {
		if err := s.refreshSeats(ctx, &trains[i]); err != nil {
			return nil, err
		}
	}

	return trains, nil
}

func (s *TrainService) refreshSeats(ctx context.Context, train *domain.Train) error {
	if s.external == nil {
		return nil
	}

	seats, err := s.external.GetSeats(ctx, train.Number)
	if err != nil {
		return s.storeErr("get seats", err)
	}

	train.AvailableSeats = seats
	return nil
}

func (s *TrainService) storeErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTrainNotFound),
		errors.Is(err, domain.ErrDuplicateTrain),
		errors.Is(err, domain.ErrTrainHasBookings):
		return err
	}

	s.log.Error("store failure", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
}

func validateTrain(t domain.Train) error {
	switch {
	case t.Number == "":
		return domain.InvalidInput("train number is required")
	case t.Name == "":
		return domain.InvalidInput("train name is required")
	case t.FromStation == "" || t.ToStation == "":
		return domain.InvalidInput("from and to stations are required")
	case t.Fare < 0:
		return domain.InvalidInput("fare cannot be negative")
	case t.AvailableSeats < 0:
		return domain.InvalidInput("seats cannot be negative")
	}

	return nil
}
