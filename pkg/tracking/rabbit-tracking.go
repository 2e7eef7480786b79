package tracking

import (
	"context"

	"github.com/matst80/escape-finder/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
	logger     *zap.Logger
}

func NewRabbitTracking(config messaging.RabbitConfig, logger *zap.Logger) (*RabbitTracking, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ret := RabbitTracking{
		prefix: config.PrefixOrDefault(),
		logger: logger,
	}
	if err := ret.connect(config.Url); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, t.prefix, messaging.SearchTracked); err != nil {
		conn.Close()
		return err
	}
	t.connection = conn
	return nil
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(ctx context.Context, data any) error {
	return messaging.SendChange(ctx, t.connection, t.prefix, messaging.SearchTracked, data)
}

func (t *RabbitTracking) TrackSearch(ctx context.Context, event SearchEvent) {
	if err := t.send(ctx, event); err != nil {
		t.logger.Warn("error sending search event", zap.String("request_id", event.RequestId), zap.Error(err))
	}
}

func (t *RabbitTracking) TrackView(ctx context.Context, event ViewEvent) {
	if err := t.send(ctx, event); err != nil {
		t.logger.Warn("error sending view event", zap.String("request_id", event.RequestId), zap.Error(err))
	}
}
