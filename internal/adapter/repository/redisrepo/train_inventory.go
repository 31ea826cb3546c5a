package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/rail_booking/internal/core/domain"
)

const (
	fieldName  = "name"
	fieldFrom  = "from"
	fieldTo    = "to"
	fieldFare  = "fare"
	fieldSeats = "seats"
)

// Script results: -1 missing train, 0 rejected, 1 done.
var reserveScript = redis.NewScript(`
local seats = redis.call('HGET', KEYS[1], 'seats')
if not seats then
	return -1
end
local count = tonumber(ARGV[1])
if tonumber(seats) < count then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'seats', -count)
return 1
`)

var restoreScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('HINCRBY', KEYS[1], 'seats', tonumber(ARGV[1]))
return 1
`)

var seedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'name', ARGV[1], 'from', ARGV[2], 'to', ARGV[3], 'fare', ARGV[4], 'seats', ARGV[5])
return 1
`)

// The seats field is never written here.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('HSET', KEYS[1], 'name', ARGV[1], 'from', ARGV[2], 'to', ARGV[3], 'fare', ARGV[4])
return 1
`)

// TrainInventory keeps seat counters in Redis hashes. Every mutation runs
// as a Lua script, so check-and-decrement is atomic on the server.
type TrainInventory struct {
	client redis.Cmdable
}

func NewTrainInventory(client redis.Cmdable) *TrainInventory {
	return &TrainInventory{client: client}
}

func TrainKey(trainNumber string) string {
	return fmt.Sprintf("train:%s", trainNumber)
}

func (r *TrainInventory) GetTrain(ctx context.Context, trainNumber string) (*domain.Train, error) {
	fields, err := r.client.HGetAll(ctx, TrainKey(trainNumber)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, domain.ErrTrainNotFound
	}

	fare, err := strconv.ParseFloat(fields[fieldFare], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt fare for train %s: %w", trainNumber, err)
	}

	seats, err := strconv.Atoi(fields[fieldSeats])
	if err != nil {
		return nil, fmt.Errorf("corrupt seats for train %s: %w", trainNumber, err)
	}

	return &domain.Train{
		Number:         trainNumber,
		Name:           fields[fieldName],
		FromStation:    fields[fieldFrom],
		ToStation:      fields[fieldTo],
		Fare:           fare,
		AvailableSeats: seats,
	}, nil
}

func (r *TrainInventory) GetSeats(ctx context.Context, trainNumber string) (int, error) {
	seats, err := r.client.HGet(ctx, TrainKey(trainNumber), fieldSeats).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrTrainNotFound
		}

		return 0, err
	}

	return seats, nil
}

func (r *TrainInventory) TryReserve(ctx context.Context, trainNumber string, count int) (bool, error) {
	res, err := reserveScript.Run(ctx, r.client, []string{TrainKey(trainNumber)}, count).Int()
	if err != nil {
		return false, err
	}

	switch res {
	case -1:
		return false, domain.ErrTrainNotFound
	case 1:
		return true, nil
	default:
		return false, nil
	}
}

func (r *TrainInventory) Restore(ctx context.Context, trainNumber string, count int) error {
	res, err := restoreScript.Run(ctx, r.client, []string{TrainKey(trainNumber)}, count).Int()
	if err != nil {
		return err
	}

	if res == -1 {
		return domain.ErrTrainNotFound
	}

	return nil
}

// SeedTrain writes the train only if Redis has never seen it, so live seat
// counts survive restarts. It reports whether the train was written.
func (r *TrainInventory) SeedTrain(ctx context.Context, train *domain.Train) (bool, error) {
	res, err := seedScript.Run(ctx, r.client, []string{TrainKey(train.Number)},
		train.Name,
		train.FromStation,
		train.ToStation,
		strconv.FormatFloat(train.Fare, 'f', -1, 64),
		train.AvailableSeats,
	).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}

func (r *TrainInventory) UpdateDetails(ctx context.Context, train *domain.Train) error {
	res, err := updateScript.Run(ctx, r.client, []string{TrainKey(train.Number)},
		train.Name,
		train.FromStation,
		train.ToStation,
		strconv.FormatFloat(train.Fare, 'f', -1, 64),
	).Int()
	if err != nil {
		return err
	}

	if res == -1 {
		return domain.ErrTrainNotFound
	}

	return nil
}

// RemoveTrain drops the train's hash. A missing key is not an error.
func (r *TrainInventory) RemoveTrain(ctx context.Context, trainNumber string) error {
	return r.client.Del(ctx, TrainKey(trainNumber)).Err()
}
