package notify

import (
	"context"
	"errors"
)

type WebhookConfig struct {
	Url     string            `json:"url" validate:"required,url"`
	Headers map[string]string `json:"headers"`
}

// Config lists the notifiers to deliver to, any subset may be set.
type Config struct {
	Webhooks []WebhookConfig `json:"webhooks" validate:"dive"`
	Email    *EmailConfig    `json:"email"`
	PubSub   *PubSubConfig   `json:"pubsub"`
}

// Build creates every configured notifier. The returned function releases
// their resources.
func (c Config) Build(ctx context.Context) (Multi, func() error, error) {
	out := Multi{}
	var closers []func() error

	for _, hook := range c.Webhooks {
		out = append(out, NewWebhook(hook.Url, hook.Headers))
	}
	if c.Email != nil {
		out = append(out, NewEmail(*c.Email))
	}
	if c.PubSub != nil {
		publisher, err := NewPubSub(ctx, *c.PubSub)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, publisher)
		closers = append(closers, publisher.Close)
	}

	return out, func() error {
		var errs []error
		for _, close := range closers {
			errs = append(errs, close())
		}
		return errors.Join(errs...)
	}, nil
}
