package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/internal/domain/types"
	"github.com/Temutjin2k/swiftdrop/pkg/hasher"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
	"github.com/Temutjin2k/swiftdrop/pkg/rabbit"
	"github.com/rabbitmq/amqp091-go"
)

const (
	serviceName   = "swiftdrop"
	orderExchange = "order_topic"
)

type OrderProducer struct {
	client *rabbit.RabbitMQ
}

func NewOrderProducer(client *rabbit.RabbitMQ) (*OrderProducer, error) {
	if err := client.Channel.ExchangeDeclare(
		orderExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &OrderProducer{
		client: client,
	}, nil
}

// PublishOrderConfirmed announces a freshly confirmed order.
func (r *OrderProducer) PublishOrderConfirmed(ctx context.Context, msg models.OrderConfirmedMessage) error {
	const op = "OrderProducer.PublishOrderConfirmed"

	key := fmt.Sprintf("order.confirmed.%s", msg.OrderID)
	return r.publish(ctx, op, key, msg)
}

// PublishOrderStatus announces a lifecycle change of an order: a phase
// of the delivery, a cancellation, or the final delivered event.
func (r *OrderProducer) PublishOrderStatus(ctx context.Context, msg models.OrderStatusMessage) error {
	const op = "OrderProducer.PublishOrderStatus"

	key := fmt.Sprintf("order.status.%s", msg.OrderID)
	return r.publish(ctx, op, key, msg)
}

func (r *OrderProducer) publish(ctx context.Context, op, key string, msg any) error {
	if err := r.client.EnsureConnection(ctx); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionRabbitMQPublishFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionRabbitMQPublishFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	if err := r.client.Channel.PublishWithContext(
		ctx,
		orderExchange, // exchange
		key,           // routing key
		false,         // mandatory
		false,         // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			// content-derived id lets consumers deduplicate redeliveries
			MessageId: hasher.SumBytes(body),
			Body:      body,
			Timestamp: time.Now(),
		},
	); err != nil {
		metrics.RecordRabbitMQPublish(serviceName, key, err)
		ctx = wrap.WithAction(ctx, types.ActionRabbitMQPublishFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish with context: %w", op, err))
	}

	metrics.RecordRabbitMQPublish(serviceName, key, nil)

	return nil
}
