package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"wisma/config"
	"wisma/infras/kafka"
	"wisma/infras/otel"
	"wisma/internal/domains/booking/model"
	"wisma/shared/constant"
	"wisma/shared/timezone"

	"github.com/rs/zerolog/log"
)

// BookingEvent is the payload published for every booking lifecycle change.
type BookingEvent struct {
	Event      string    `json:"event"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	Status     string    `json:"status"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking model.Booking)
	BookingStatusChanged(ctx context.Context, booking model.Booking)
	BookingCancelled(ctx context.Context, booking model.Booking)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) BookingCreated(ctx context.Context, booking model.Booking) {
	p.publish(ctx, constant.BookingEventCreated, booking)
}

func (p *publisherImpl) BookingStatusChanged(ctx context.Context, booking model.Booking) {
	p.publish(ctx, constant.BookingEventStatusChanged, booking)
}

func (p *publisherImpl) BookingCancelled(ctx context.Context, booking model.Booking) {
	p.publish(ctx, constant.BookingEventCancelled, booking)
}

// publish is fire and forget. A booking mutation must not fail because the
// broker is unreachable, so errors are only logged and traced.
func (p *publisherImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+"."+eventType)
	defer scope.End()

	message := kafka.Message{
		Key: booking.ID,
		Value: BookingEvent{
			Event:      eventType,
			BookingID:  booking.ID,
			RoomID:     booking.RoomID,
			Status:     booking.Status,
			CheckIn:    booking.CheckIn,
			CheckOut:   booking.CheckOut,
			TotalPrice: booking.TotalPrice,
			OccurredAt: timezone.Now(),
		},
	}

	if err := p.client.SendMessages(ctx, p.cfg.Kafka.BookingTopic, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
	}
}
