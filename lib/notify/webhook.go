package notify

import (
	"context"
	"dualis-watch/lib/results"
	"dualis-watch/lib/telemetry"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Webhook posts a JSON document to a url. The "content" field makes the
// payload directly usable as a Discord or Slack compatible chat webhook.
type Webhook struct {
	url  string
	http *resty.Client
}

type webhookPayload struct {
	Content string   `json:"content"`
	Courses []course `json:"courses"`
}

func NewWebhook(url string, headers map[string]string) Webhook {
	client := resty.New()
	client.SetTimeout(time.Second * 15)
	client.SetHeaders(headers)
	telemetry.InstrumentResty(client, "dualis-watch/notify/webhook")
	return Webhook{url: url, http: client}
}

func (w Webhook) Notify(ctx context.Context, transitions []results.Transition) error {
	if len(transitions) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "Webhook:Notify")
	defer span.End()
	span.SetAttributes(attribute.Int("transitions", len(transitions)))

	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(webhookPayload{
			Content: Message(transitions),
			Courses: courses(transitions),
		}).
		Post(w.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post webhook")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("webhook responded with %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook rejected payload")
		return err
	}
	return nil
}
