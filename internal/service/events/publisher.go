package events

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"ordergateway/internal/constant"
	"ordergateway/internal/entity"
	"ordergateway/internal/util"
)

// Publisher emits order lifecycle events. Publishing is best-effort:
// a failed publish never fails the placement that triggered it.
type Publisher interface {
	OrderPlaced(ctx context.Context, event entity.OrderPlacedEvent)
}

type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(context.Context, entity.OrderPlacedEvent) {}

type JetStreamPublisher struct {
	js nats.JetStreamContext
}

func NewJetStreamPublisher(ctx context.Context, js nats.JetStreamContext) (*JetStreamPublisher, error) {
	streamConfig := &nats.StreamConfig{
		Name:      constant.OrderGatewayStreamName,
		Subjects:  []string{constant.OrderGatewayStreamSubjectAll},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	}

	stream, err := js.StreamInfo(constant.OrderGatewayStreamName, nats.Context(ctx))
	if err != nil && !errors.Is(err, nats.ErrStreamNotFound) {
		logrus.Error(err)
		return nil, err
	}

	if stream == nil {
		logrus.Infof("creating stream: %s", constant.OrderGatewayStreamName)
		_, err = js.AddStream(streamConfig, nats.Context(ctx))
		if err != nil {
			return nil, err
		}

		return &JetStreamPublisher{js: js}, nil
	}

	logrus.Infof("updating stream: %s", constant.OrderGatewayStreamName)
	_, err = js.UpdateStream(streamConfig, nats.Context(ctx))
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	return &JetStreamPublisher{js: js}, nil
}

func (p *JetStreamPublisher) OrderPlaced(_ context.Context, event entity.OrderPlacedEvent) {
	err := util.PublishEvent(p.js, constant.OrderGatewayStreamSubjectOrderPlaced, event)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"broker":   event.Broker,
			"order_id": event.OrderID,
		}).Errorf("failed to publish order placed event: %v", err)
	}
}
