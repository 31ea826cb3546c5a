package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srgjo27/rail_booking/internal/core/domain"
)

const BookingConfirmedQueue = "booking.confirmed"

type BookingConfirmedEvent struct {
	TransactionID string  `json:"transaction_id"`
	CustomerEmail string  `json:"customer_email"`
	TrainNumber   string  `json:"train_number"`
	JourneyDate   string  `json:"journey_date"`
	FromStation   string  `json:"from_station"`
	ToStation     string  `json:"to_station"`
	Seats         int     `json:"seats"`
	Amount        float64 `json:"amount"`
	ConfirmedAt   string  `json:"confirmed_at"`
}

func NewBookingConfirmedEvent(b *domain.Booking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		TransactionID: b.TransactionID,
		CustomerEmail: b.CustomerEmail,
		TrainNumber:   b.TrainNumber,
		JourneyDate:   b.JourneyDate,
		FromStation:   b.FromStation,
		ToStation:     b.ToStation,
		Seats:         b.SeatsBooked,
		Amount:        b.Amount,
		ConfirmedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

const defaultPublishTimeout = 3 * time.Second

// RabbitMQPublisher sends booking.confirmed events to a durable queue. It
// dials per message, which is fine for the booking rate this service sees.
// Each publish, handshake included, is bounded by its timeout.
type RabbitMQPublisher struct {
	url     string
	timeout time.Duration
	log     *slog.Logger
}

func NewRabbitMQPublisher(url string, timeout time.Duration, log *slog.Logger) *RabbitMQPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &RabbitMQPublisher{url: url, timeout: timeout, log: log}
}

func (p *RabbitMQPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	body, err := json.Marshal(NewBookingConfirmedEvent(booking))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: dialContext(ctx)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Channel and QueueDeclare wait on the broker with no deadline of their
	// own; closing the connection releases them.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", contextErr(ctx, err))
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		BookingConfirmedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", contextErr(ctx, err))
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    booking.TransactionID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", contextErr(ctx, err))
	}

	p.log.Debug("booking confirmed event published", "transaction_id", booking.TransactionID)
	return nil
}

// dialContext connects within ctx and carries its deadline onto the socket,
// so a broker that accepts but never answers fails the AMQP handshake.
// The client clears the deadline once the handshake completes.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		if deadline, ok := ctx.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}

		return conn, nil
	}
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}
