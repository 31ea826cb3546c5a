package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/rail_booking/internal/core/domain"
	"github.com/srgjo27/rail_booking/internal/core/ports/mocks"
	"github.com/srgjo27/rail_booking/internal/core/services"
	"github.com/srgjo27/rail_booking/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func tr123(seats int) *domain.Train {
	return &domain.Train{
		Number:         "TR123",
		Name:           "Coastal Express",
		FromStation:    "Station A",
		ToStation:      "Station B",
		Fare:           100.0,
		AvailableSeats: seats,
	}
}

func aliceRequest(seats int) domain.BookingRequest {
	return domain.BookingRequest{
		CustomerEmail:  "alice@example.com",
		TrainNumber:    "TR123",
		JourneyDate:    "2024-01-20",
		TravelClass:    "SL",
		SeatsRequested: seats,
		Fare:           100.0,
	}
}

func TestReserveAndBook_Success(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()
	txID := uuid.NewString()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.SeatsBooked == 2 && b.Amount == 200.0 && b.FromStation == "Station A" && b.CustomerEmail == "alice@example.com"
	})).Return(txID, nil)

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))

	require.NoError(t, err)
	assert.Equal(t, txID, booking.TransactionID)
	assert.Equal(t, 200.0, booking.Amount)
	assert.Equal(t, "Station B", booking.ToStation)
	assert.Equal(t, "2024-01-20", booking.JourneyDate)
	inventory.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveAndBook_ZeroFareUsesStoredFare(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()
	train := tr123(10)
	train.Fare = 75.5

	req := aliceRequest(2)
	req.Fare = 0

	inventory.On("GetTrain", ctx, "TR123").Return(train, nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).Return("tx-1", nil)

	booking, err := service.ReserveAndBook(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, 151.0, booking.Amount)
}

func TestReserveAndBook_Fail_InvalidInput(t *testing.T) {
	cases := map[string]func(*domain.BookingRequest){
		"zero seats":       func(r *domain.BookingRequest) { r.SeatsRequested = 0 },
		"negative seats":   func(r *domain.BookingRequest) { r.SeatsRequested = -3 },
		"missing train":    func(r *domain.BookingRequest) { r.TrainNumber = "  " },
		"missing email":    func(r *domain.BookingRequest) { r.CustomerEmail = "" },
		"bad journey date": func(r *domain.BookingRequest) { r.JourneyDate = "20/01/2024" },
		"negative fare":    func(r *domain.BookingRequest) { r.Fare = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			inventory := mocks.NewTrainInventory(t)
			ledger := mocks.NewBookingLedger(t)
			service := services.NewBookingService(inventory, ledger, logging.Discard())

			req := aliceRequest(2)
			mutate(&req)

			booking, err := service.ReserveAndBook(context.Background(), req)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, domain.OutcomeRejectedInput, domain.OutcomeOf(err))
			inventory.AssertNotCalled(t, "TryReserve", mock.Anything, mock.Anything, mock.Anything)
			ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestReserveAndBook_Fail_TrainNotFound(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()
	req := aliceRequest(1)
	req.TrainNumber = "ZZZZZ"

	inventory.On("GetTrain", ctx, "ZZZZZ").Return(nil, domain.ErrTrainNotFound)

	booking, err := service.ReserveAndBook(ctx, req)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrTrainNotFound)
	inventory.AssertNotCalled(t, "TryReserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveAndBook_Fail_Capacity(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(5), nil)
	inventory.On("TryReserve", ctx, "TR123", 10).Return(false, nil)
	inventory.On("GetSeats", ctx, "TR123").Return(5, nil)

	booking, err := service.ReserveAndBook(ctx, aliceRequest(10))

	assert.Nil(t, booking)
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5, capErr.Available)
	assert.Contains(t, err.Error(), "5 seats available")
	assert.Equal(t, domain.OutcomeRejectedCapacity, domain.OutcomeOf(err))
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestReserveAndBook_Fail_ReserveStoreError(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(false, errors.New("connection reset by peer"))

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotContains(t, err.Error(), "connection reset")
	assert.Equal(t, domain.OutcomeFailed, domain.OutcomeOf(err))
	inventory.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveAndBook_Fail_AppendRestoresSeats(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).Return("", errors.New("disk full"))
	inventory.On("Restore", mock.Anything, "TR123", 2).Return(nil).Once()

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, domain.OutcomeFailed, domain.OutcomeOf(err))
}

func TestReserveAndBook_Fail_RestoreFailsToo(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()
	commitErr := errors.New("disk full")
	restoreErr := errors.New("connection refused")

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).Return("", commitErr)
	inventory.On("Restore", mock.Anything, "TR123", 2).Return(restoreErr).Once()

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))

	assert.Nil(t, booking)
	var compErr *domain.CompensationError
	require.ErrorAs(t, err, &compErr)
	assert.ErrorIs(t, err, commitErr)
	assert.ErrorIs(t, err, restoreErr)
	assert.Equal(t, 2, compErr.Seats)
	assert.Equal(t, domain.OutcomeCompensatingThenFailed, domain.OutcomeOf(err))
}

func TestReserveAndBook_CancelledDuringCommitStillRestores(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)
	inventory.On("Restore", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), "TR123", 2).Return(nil).Once()

	booking, err := service.ReserveAndBook(ctx, aliceRequest(2))

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReserveAndBook_PanicDuringCommitStillRestores(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 2).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).Panic("driver bug")
	inventory.On("Restore", mock.Anything, "TR123", 2).Return(nil).Once()

	assert.Panics(t, func() {
		_, _ = service.ReserveAndBook(ctx, aliceRequest(2))
	})
}

func TestReserveAndBook_PublishesAfterCommit(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	pub := mocks.NewEventPublisher(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard(), services.WithPublisher(pub))

	ctx := context.Background()

	inventory.On("GetTrain", ctx, "TR123").Return(tr123(10), nil)
	inventory.On("TryReserve", ctx, "TR123", 1).Return(true, nil)
	ledger.On("Append", ctx, mock.AnythingOfType("*domain.Booking")).Return("tx-9", nil)
	pub.On("PublishBookingConfirmed", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TransactionID == "tx-9"
	})).Return(errors.New("broker down"))

	booking, err := service.ReserveAndBook(ctx, aliceRequest(1))

	require.NoError(t, err)
	assert.Equal(t, "tx-9", booking.TransactionID)
}

func TestBookingHistory(t *testing.T) {
	inventory := mocks.NewTrainInventory(t)
	ledger := mocks.NewBookingLedger(t)
	service := services.NewBookingService(inventory, ledger, logging.Discard())

	ctx := context.Background()

	ledger.On("FindByCustomer", ctx, "nobody@example.com").Return(nil, nil)
	ledger.On("FindByCustomer", ctx, "broken@example.com").Return(nil, errors.New("timeout"))

	bookings, err := service.BookingHistory(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)

	_, err = service.BookingHistory(ctx, "broken@example.com")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = service.BookingHistory(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
