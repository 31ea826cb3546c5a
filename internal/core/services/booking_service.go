package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/ports"
)

const (
	journeyDateLayout          = "2006-01-02"
	defaultCompensationTimeout = 5 * time.Second
)

var errBookingAborted = errors.New("booking aborted before commit")

type BookingService struct {
	inventory           ports.TrainInventory
	ledger              ports.BookingLedger
	publisher           ports.EventPublisher
	log                 *slog.Logger
	compensationTimeout time.Duration
}

type BookingOption func(*BookingService)

// WithPublisher announces committed bookings. Publishing is best effort and
// runs on the request path, so p should return quickly; a broker belongs
// behind a queue such as publisher.AsyncPublisher.
func WithPublisher(p ports.EventPublisher) BookingOption {
	return func(s *BookingService) { s.publisher = p }
}

func WithCompensationTimeout(d time.Duration) BookingOption {
	return func(s *BookingService) {
		if d > 0 {
			s.compensationTimeout = d
		}
	}
}

func NewBookingService(inventory ports.TrainInventory, ledger ports.BookingLedger, log *slog.Logger, opts ...BookingOption) *BookingService {
	s := &BookingService{
		inventory:           inventory,
		ledger:              ledger,
		log:                 log,
		compensationTimeout: defaultCompensationTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReserveAndBook takes seats from the train's inventory and records the
// booking. Once seats are reserved, any exit without a recorded booking
// gives them back, including caller cancellation and panics.
func (s *BookingService) ReserveAndBook(ctx context.Context, req domain.BookingRequest) (booking *domain.Booking, err error) {
	req = normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	train, err := s.inventory.GetTrain(ctx, req.TrainNumber)
	if err != nil {
		return nil, s.classify(ctx, "lookup train", req.TrainNumber, err)
	}

	fare := req.Fare
	if fare == 0 {
		fare = train.Fare
	}

	reserved, err := s.inventory.TryReserve(ctx, req.TrainNumber, req.SeatsRequested)
	if err != nil {
		return nil, s.classify(ctx, "reserve seats", req.TrainNumber, err)
	}

	if !reserved {
		return nil, s.rejectCapacity(ctx, req, train)
	}

	var commitCause error
	committed := false

	defer func() {
		if committed {
			return
		}

		if commitCause == nil {
			commitCause = errBookingAborted
		}

		if restoreErr := s.compensate(ctx, req.TrainNumber, req.SeatsRequested); restoreErr != nil {
			s.log.Error("seat restore failed after booking failure",
				"alert", "inventory_drift",
				"train_number", req.TrainNumber,
				"seats", req.SeatsRequested,
				"commit_err", commitCause,
				"restore_err", restoreErr,
			)
			booking = nil
			err = &domain.CompensationError{
				TrainNumber:   req.TrainNumber,
				Seats:         req.SeatsRequested,
				CommitErr:     commitCause,
				CompensateErr: restoreErr,
			}
			return
		}

		s.log.Warn("booking not recorded, seats restored",
			"train_number", req.TrainNumber,
			"seats", req.SeatsRequested,
			"cause", commitCause,
		)
	}()

	newBooking := &domain.Booking{
		CustomerEmail: req.CustomerEmail,
		TrainNumber:   req.TrainNumber,
		JourneyDate:   req.JourneyDate,
		TravelClass:   req.TravelClass,
		FromStation:   train.FromStation,
		ToStation:     train.ToStation,
		SeatsBooked:   req.SeatsRequested,
		Amount:        fare * float64(req.SeatsRequested),
		CreatedAt:     time.Now().UTC(),
	}

	txID, err := s.ledger.Append(ctx, newBooking)
	if err != nil {
		commitCause = err
		return nil, s.classify(ctx, "record booking", req.TrainNumber, err)
	}

	newBooking.TransactionID = txID
	committed = true

	s.log.Info("booking committed",
		"transaction_id", txID,
		"train_number", req.TrainNumber,
		"seats", req.SeatsRequested,
		"amount", newBooking.Amount,
	)

	s.publish(ctx, newBooking)

	return newBooking, nil
}

// BookingHistory lists a customer's bookings in the order they were made.
func (s *BookingService) BookingHistory(ctx context.Context, customerEmail string) ([]domain.Booking, error) {
	customerEmail = strings.TrimSpace(customerEmail)
	if customerEmail == "" {
		return nil, domain.InvalidInput("customer email is required")
	}

	bookings, err := s.ledger.FindByCustomer(ctx, customerEmail)
	if err != nil {
		return nil, s.classify(ctx, "find bookings", "", err)
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}

	return bookings, nil
}

func (s *BookingService) rejectCapacity(ctx context.Context, req domain.BookingRequest, train *domain.Train) error {
	available, err := s.inventory.GetSeats(ctx, req.TrainNumber)
	if err != nil {
		s.log.Warn("could not re-read seats for rejection message", "train_number", req.TrainNumber, "err", err)
		available = train.AvailableSeats
	}

	s.log.Info("booking rejected: not enough seats",
		"train_number", req.TrainNumber,
		"requested", req.SeatsRequested,
		"available", available,
	)

	return &domain.CapacityError{
		TrainNumber: req.TrainNumber,
		Requested:   req.SeatsRequested,
		Available:   available,
	}
}

func (s *BookingService) compensate(ctx context.Context, trainNumber string, seats int) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.compensationTimeout)
	defer cancel()

	return s.inventory.Restore(ctx, trainNumber, seats)
}

func (s *BookingService) publish(ctx context.Context, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishBookingConfirmed(ctx, booking); err != nil {
		s.log.Warn("publish booking confirmed failed", "transaction_id", booking.TransactionID, "err", err)
	}
}

// classify keeps domain errors and caller cancellation intact and hides
// everything else behind ErrStoreUnavailable.
func (s *BookingService) classify(ctx context.Context, op, trainNumber string, err error) error {
	if errors.Is(err, domain.ErrTrainNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrTrainNotFound, trainNumber)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}

	s.log.Error("store failure", "op", op, "train_number", trainNumber, "err", err)

	return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
}

func normalizeRequest(req domain.BookingRequest) domain.BookingRequest {
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.TrainNumber = strings.TrimSpace(req.TrainNumber)
	req.JourneyDate = strings.TrimSpace(req.JourneyDate)
	req.TravelClass = strings.TrimSpace(req.TravelClass)
	return req
}

func validateRequest(req domain.BookingRequest) error {
	if req.TrainNumber == "" {
		return domain.InvalidInput("train number is required")
	}

	if req.SeatsRequested <= 0 {
		return domain.InvalidInput("seats must be a positive number")
	}

	if req.CustomerEmail == "" {
		return domain.InvalidInput("customer email is required")
	}

	if _, err := time.Parse(journeyDateLayout, req.JourneyDate); err != nil {
		return domain.InvalidInput("journey date must be YYYY-MM-DD")
	}

	if req.Fare < 0 {
		return domain.InvalidInput("fare cannot be negative")
	}

	return nil
}
