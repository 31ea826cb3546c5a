package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/rail_booking/internal/core/domain"
)

// Store is a process-local train inventory, catalog and booking ledger.
// One mutex guards the seat counters, so check-and-decrement is atomic.
type Store struct {
	mu       sync.Mutex
	trains   map[string]domain.Train
	bookings []domain.Booking
	byID     map[string]struct{}

	// test hooks
	appendErr  error
	restoreErr error
}

func NewStore(trains ...domain.Train) *Store {
	s := &Store{
		trains: make(map[string]domain.Train, len(trains)),
		byID:   make(map[string]struct{}),
	}
	for _, t := range trains {
		s.trains[t.Number] = t
	}
	return s
}

// FailAppend makes every following Append fail with err. Pass nil to reset.
func (s *Store) FailAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// FailRestore makes every following Restore fail with err. Pass nil to reset.
func (s *Store) FailRestore(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreErr = err
}

func (s *Store) GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trains[trainNumber]
	if !ok {
		return nil, domain.ErrTrainNotFound
	}
	return &t, nil
}

func (s *Store) GetSeats(ctx context.Context, trainNumber string) (int, error) {
	t, err := s.GetTrain(ctx, trainNumber)
	if err != nil {
		return 0, err
	}
	return t.AvailableSeats, nil
}

func (s *Store) TryReserve(ctx context.Context, trainNumber string, count int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trains[trainNumber]
	if !ok {
		return false, domain.ErrTrainNotFound
	}

	if !t.HasSeats(count) {
		return false, nil
	}

	t.AvailableSeats -= count
	s.trains[trainNumber] = t
	return true, nil
}

// Restore runs during compensation, so it ignores cancellation of ctx.
func (s *Store) Restore(_ context.Context, trainNumber string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restoreErr != nil {
		return s.restoreErr
	}

	t, ok := s.trains[trainNumber]
	if !ok {
		return domain.ErrTrainNotFound
	}

	t.AvailableSeats += count
	s.trains[trainNumber] = t
	return nil
}

func (s *Store) ListTrains(ctx context.Context) ([]domain.Train, error) {
	return s.filter(ctx, func(domain.Train) bool { return true })
}

func (s *Store) SearchBetween(ctx context.Context, fromStation, toStation string) ([]domain.Train, error) {
	return s.filter(ctx, func(t domain.Train) bool {
		return strings.EqualFold(t.FromStation, fromStation) && strings.EqualFold(t.ToStation, toStation)
	})
}

func (s *Store) AddTrain(ctx context.Context, train *domain.Train) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trains[train.Number]; ok {
		return domain.ErrDuplicateTrain
	}

	s.trains[train.Number] = *train
	return nil
}

func (s *Store) UpdateTrain(ctx context.Context, train *domain.Train) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trains[train.Number]
	if !ok {
		return domain.ErrTrainNotFound
	}

	t.Name = train.Name
	t.FromStation = train.FromStation
	t.ToStation = train.ToStation
	t.Fare = train.Fare
	s.trains[train.Number] = t
	return nil
}

// DeleteTrain refuses trains that still have ledger entries, like the
// bookings foreign key in the SQL schema.
func (s *Store) DeleteTrain(ctx context.Context, trainNumber string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trains[trainNumber]; !ok {
		return domain.ErrTrainNotFound
	}

	for _, b := range s.bookings {
		if b.TrainNumber == trainNumber {
			return domain.ErrTrainHasBookings
		}
	}

	delete(s.trains, trainNumber)
	return nil
}

func (s *Store) Append(ctx context.Context, booking *domain.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendErr != nil {
		return "", s.appendErr
	}

	id := uuid.NewString()
	if _, taken := s.byID[id]; taken {
		return "", errors.New("transaction id collision")
	}

	entry := *booking
	entry.TransactionID = id
	s.bookings = append(s.bookings, entry)
	s.byID[id] = struct{}{}

	return id, nil
}

func (s *Store) FindByCustomer(ctx context.Context, customerEmail string) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Booking{}
	for _, b := range s.bookings {
		if b.CustomerEmail == customerEmail {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) SoldSeats(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sold := make(map[string]int)
	for _, b := range s.bookings {
		sold[b.TrainNumber] += b.SeatsBooked
	}
	return sold, nil
}

// BookingCount reports how many ledger entries exist.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) filter(ctx context.Context, keep func(domain.Train) bool) ([]domain.Train, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Train{}
	for _, t := range s.trains {
		if keep(t) {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
