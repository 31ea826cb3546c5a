package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/rail_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/services"
	"github.com/srgjo27/rail_booking/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAndBook_MemoryStoreScenario(t *testing.T) {
	store := memory.NewStore(*tr123(10))
	service := services.NewBookingService(store, store, logging.Discard())
	ctx := context.Background()

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))
	require.NoError(t, err)

	_, err = uuid.Parse(booking.TransactionID)
	assert.NoError(t, err)
	assert.Len(t, booking.TransactionID, 36)
	assert.Equal(t, 200.0, booking.Amount)

	seats, err := store.GetSeats(ctx, "TR123")
	require.NoError(t, err)
	assert.Equal(t, 8, seats)

	history, err := service.BookingHistory(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, booking.TransactionID, history[0].TransactionID)
	assert.Equal(t, 2, history[0].SeatsBooked)
}

func TestReserveAndBook_MemoryStoreUnknownTrain(t *testing.T) {
	store := memory.NewStore(*tr123(10))
	service := services.NewBookingService(store, store, logging.Discard())
	ctx := context.Background()

	req := aliceRequest(1)
	req.TrainNumber = "ZZZZZ"

	_, err := service.ReserveAndBook(ctx, req)

	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	assert.Equal(t, 0, store.BookingCount())
	seats, _ := store.GetSeats(ctx, "TR123")
	assert.Equal(t, 10, seats)
}

func TestReserveAndBook_MemoryStoreAppendFailureRestores(t *testing.T) {
	store := memory.NewStore(*tr123(10))
	store.FailAppend(errors.New("ledger offline"))
	service := services.NewBookingService(store, store, logging.Discard())
	ctx := context.Background()

	_, err := service.ReserveAndBook(ctx, aliceRequest(4))

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	seats, _ := store.GetSeats(ctx, "TR123")
	assert.Equal(t, 10, seats)
	assert.Equal(t, 0, store.BookingCount())
}

func TestReserveAndBook_MemoryStoreCompensationFailureIsReported(t *testing.T) {
	store := memory.NewStore(*tr123(10))
	store.FailAppend(errors.New("ledger offline"))
	store.FailRestore(errors.New("inventory offline"))
	service := services.NewBookingService(store, store, logging.Discard())
	ctx := context.Background()

	_, err := service.ReserveAndBook(ctx, aliceRequest(4))

	assert.Equal(t, domain.OutcomeCompensatingThenFailed, domain.OutcomeOf(err))
	seats, _ := store.GetSeats(ctx, "TR123")
	assert.Equal(t, 6, seats)
}

func TestReserveAndBook_ConcurrentRequestsNeverOversell(t *testing.T) {
	const (
		capacity = 10
		workers  = 16
		perReq   = 3
	)

	store := memory.NewStore(*tr123(capacity))
	service := services.NewBookingService(store, store, logging.Discard())
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		booked   int
		rejected int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := service.ReserveAndBook(ctx, aliceRequest(perReq))

			mu.Lock()
			defer mu.Unlock()
			switch domain.OutcomeOf(err) {
			case domain.OutcomeSucceeded:
				booked += perReq
			case domain.OutcomeRejectedCapacity:
				rejected++
			default:
				t.Errorf("unexpected outcome: %v", err)
			}
		}()
	}
	wg.Wait()

	seats, err := store.GetSeats(ctx, "TR123")
	require.NoError(t, err)

	assert.LessOrEqual(t, booked, capacity)
	assert.Equal(t, 9, booked)
	assert.Equal(t, capacity-booked, seats)
	assert.GreaterOrEqual(t, rejected, 1)
	assert.Equal(t, booked/perReq, store.BookingCount())
}
