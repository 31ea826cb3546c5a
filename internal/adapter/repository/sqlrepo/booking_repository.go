package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/rail_booking/internal/core/domain"
)

const appendAttempts = 2

type BookingRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewBookingRepository(db *sql.DB, dialect Dialect) *BookingRepository {
	return &BookingRepository{db: db, dialect: dialect}
}

// Append stores the booking under a freshly generated transaction id. A
// colliding id is regenerated; any other failure is returned as is.
func (r *BookingRepository) Append(ctx context.Context, booking *domain.Booking) (string, error) {
	query := r.dialect.rebind(`
	INSERT INTO bookings (transid, mailid, tr_no, journey_date, travel_class, from_stn, to_stn, seats, amount, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	var err error
	for i := 0; i < appendAttempts; i++ {
		id := uuid.NewString()

		_, err = r.db.ExecContext(ctx, query,
			id,
			booking.CustomerEmail,
			booking.TrainNumber,
			booking.JourneyDate,
			booking.TravelClass,
			booking.FromStation,
			booking.ToStation,
			booking.SeatsBooked,
			booking.Amount,
			booking.CreatedAt,
		)
		if err == nil {
			return id, nil
		}

		if !r.dialect.IsDuplicateKey(err) {
			return "", fmt.Errorf("failed to insert booking: %w", err)
		}
	}

	return "", fmt.Errorf("failed to insert booking: %w: %w", domain.ErrDuplicateKey, err)
}

func (r *BookingRepository) FindByCustomer(ctx context.Context, customerEmail string) ([]domain.Booking, error) {
	query := r.dialect.rebind(`
	SELECT transid, mailid, tr_no, journey_date, travel_class, from_stn, to_stn, seats, amount, created_at
	FROM bookings
	WHERE mailid = ?
	ORDER BY seq
	`)

	rows, err := r.db.QueryContext(ctx, query, customerEmail)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.TransactionID,
			&b.CustomerEmail,
			&b.TrainNumber,
			&b.JourneyDate,
			&b.TravelClass,
			&b.FromStation,
			&b.ToStation,
			&b.SeatsBooked,
			&b.Amount,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}

		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// SoldSeats sums booked seats per train. Trains without bookings are absent.
func (r *BookingRepository) SoldSeats(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tr_no, COALESCE(SUM(seats), 0) FROM bookings GROUP BY tr_no`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	sold := make(map[string]int)
	for rows.Next() {
		var (
			trainNumber string
			seats       int
		)
		if err := rows.Scan(&trainNumber, &seats); err != nil {
			return nil, err
		}

		sold[trainNumber] = seats
	}

	return sold, rows.Err()
}
