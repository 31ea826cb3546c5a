package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/srgjo27/rail_booking/internal/core/domain"
)

const trainColumns = `tr_no, tr_name, from_stn, to_stn, fare, seats`

type TrainRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTrainRepository(db *sql.DB, dialect Dialect) *TrainRepository {
	return &TrainRepository{db: db, dialect: dialect}
}

func (r *TrainRepository) GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error) {
	query := r.dialect.rebind(`SELECT ` + trainColumns + ` FROM trains WHERE tr_no = ?`)

	var t domain.Train
	err := r.db.QueryRowContext(ctx, query, trainNumber).Scan(
		&t.Number,
		&t.Name,
		&t.FromStation,
		&t.ToStation,
		&t.Fare,
		&t.AvailableSeats,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTrainNotFound
		}

		return nil, err
	}

	return &t, nil
}

func (r *TrainRepository) GetSeats(ctx context.Context, trainNumber string) (int, error) {
	query := r.dialect.rebind(`SELECT seats FROM trains WHERE tr_no = ?`)

	var seats int
	if err := r.db.QueryRowContext(ctx, query, trainNumber).Scan(&seats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrTrainNotFound
		}

		return 0, err
	}

	return seats, nil
}

// TryReserve decrements in a single conditional UPDATE; the row count
// decides the outcome.
func (r *TrainRepository) TryReserve(ctx context.Context, trainNumber string, count int) (bool, error) {
	query := r.dialect.rebind(`UPDATE trains SET seats = seats - ? WHERE tr_no = ? AND seats >= ?`)

	result, err := r.db.ExecContext(ctx, query, count, trainNumber, count)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rowsAffected == 1 {
		return true, nil
	}

	if _, err := r.GetSeats(ctx, trainNumber); err != nil {
		return false, err
	}

	return false, nil
}

func (r *TrainRepository) Restore(ctx context.Context, trainNumber string, count int) error {
	query := r.dialect.rebind(`UPDATE trains SET seats = seats + ? WHERE tr_no = ?`)

	result, err := r.db.ExecContext(ctx, query, count, trainNumber)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrTrainNotFound
	}

	return nil
}

func (r *TrainRepository) ListTrains(ctx context.Context) ([]domain.Train, error) {
	return r.queryTrains(ctx, `SELECT `+trainColumns+` FROM trains ORDER BY tr_no`)
}

func (r *TrainRepository) SearchBetween(ctx context.Context, fromStation, toStation string) ([]domain.Train, error) {
	return r.queryTrains(ctx,
		`SELECT `+trainColumns+` FROM trains WHERE UPPER(from_stn) = UPPER(?) AND UPPER(to_stn) = UPPER(?) ORDER BY tr_no`,
		fromStation, toStation)
}

func (r *TrainRepository) AddTrain(ctx context.Context, train *domain.Train) error {
	query := r.dialect.rebind(`INSERT INTO trains (` + trainColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		train.Number, train.Name, train.FromStation, train.ToStation, train.Fare, train.AvailableSeats)
	if err != nil {
		if r.dialect.IsDuplicateKey(err) {
			return domain.ErrDuplicateTrain
		}

		return fmt.Errorf("failed to insert train %s: %w", train.Number, err)
	}

	return nil
}

// UpdateTrain rewrites the descriptive columns only. The seat counter is
// left to TryReserve and Restore.
func (r *TrainRepository) UpdateTrain(ctx context.Context, train *domain.Train) error {
	query := r.dialect.rebind(`UPDATE trains SET tr_name = ?, from_stn = ?, to_stn = ?, fare = ? WHERE tr_no = ?`)

	result, err := r.db.ExecContext(ctx, query,
		train.Name, train.FromStation, train.ToStation, train.Fare, train.Number)
	if err != nil {
		return fmt.Errorf("failed to update train %s: %w", train.Number, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	// MySQL counts changed rows, so an identical update reports zero.
	if rowsAffected == 0 {
		if _, err := r.GetSeats(ctx, train.Number); err != nil {
			return err
		}
	}

	return nil
}

func (r *TrainRepository) DeleteTrain(ctx context.Context, trainNumber string) error {
	query := r.dialect.rebind(`DELETE FROM trains WHERE tr_no = ?`)

	result, err := r.db.ExecContext(ctx, query, trainNumber)
	if err != nil {
		if r.dialect.IsForeignKeyViolation(err) {
			return domain.ErrTrainHasBookings
		}

		return fmt.Errorf("failed to delete train %s: %w", trainNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrTrainNotFound
	}

	return nil
}

func (r *TrainRepository) queryTrains(ctx context.Context, query string, args ...any) ([]domain.Train, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	trains := []domain.Train{}
	for rows.Next() {
		var t domain.Train
		if err := rows.Scan(
			&t.Number,
			&t.Name,
			&t.FromStation,
			&t.ToStation,
			&t.Fare,
			&t.AvailableSeats,
		); err != nil {
			return nil, err
		}

		trains = append(trains, t)
	}

	return trains, rows.Err()
}
