package messaging

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := GetName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic blocks, handing every delivery to fn until ctx is done or
// the channel closes. Failed deliveries are rejected without requeue.
func ListenToTopic(ctx context.Context, logger *zap.Logger, ch *amqp.Channel, prefix string, topic ChangeTopic, fn func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}
	defer ch.Close()
	consume(ctx, logger, msgs, fn)
	return nil
}

func consume(ctx context.Context, logger *zap.Logger, msgs <-chan amqp.Delivery, fn func(amqp.Delivery) error) int {
	handled := 0
	for {
		select {
		case <-ctx.Done():
			return handled
		case d, ok := <-msgs:
			if !ok {
				return handled
			}
			if err := fn(d); err != nil {
				logger.Warn("error processing message", zap.String("routing_key", d.RoutingKey), zap.Error(err))
				if nackErr := d.Nack(false, false); nackErr != nil {
					logger.Debug("nack failed", zap.Error(nackErr))
				}
				continue
			}
			handled++
			if ackErr := d.Ack(false); ackErr != nil {
				logger.Debug("ack failed", zap.Error(ackErr))
			}
		}
	}
}

// Decode unmarshals a json delivery body.
func Decode[V any](d amqp.Delivery) (V, error) {
	var v V
	err := json.Unmarshal(d.Body, &v)
	return v, err
}
