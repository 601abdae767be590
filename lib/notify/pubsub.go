package notify

import (
	"context"
	"dualis-watch/lib/results"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
)

type PubSubConfig struct {
	ProjectID string `json:"project_id" validate:"required"`
	Topic     string `json:"topic" validate:"required"`
	// talks to an emulator without authentication when set
	EmulatorHost string `json:"emulator_host"`
}

// PubSub publishes one message per transition.
type PubSub struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSub(ctx context.Context, config PubSubConfig, opts ...option.ClientOption) (PubSub, error) {
	if config.EmulatorHost != "" {
		opts = append(opts, option.WithEndpoint(config.EmulatorHost), option.WithoutAuthentication())
	}
	client, err := pubsub.NewClient(ctx, config.ProjectID, opts...)
	if err != nil {
		return PubSub{}, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return PubSub{client: client, topic: client.Topic(config.Topic)}, nil
}

func (p PubSub) Notify(ctx context.Context, transitions []results.Transition) error {
	if len(transitions) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "PubSub:Notify")
	defer span.End()
	span.SetAttributes(attribute.String("topic", p.topic.ID()))

	pending := make([]*pubsub.PublishResult, 0, len(transitions))
	for _, t := range transitions {
		payload, err := json.Marshal(course{ID: t.ID(), Name: t.Name()})
		if err != nil {
			return err
		}
		pending = append(pending, p.topic.Publish(ctx, &pubsub.Message{
			Data:       payload,
			Attributes: map[string]string{"id": t.ID()},
		}))
	}
	for _, result := range pending {
		_, err := result.Get(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to publish")
			return fmt.Errorf("failed to publish message to topic %s: %w", p.topic.ID(), err)
		}
	}
	return nil
}

func (p PubSub) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
