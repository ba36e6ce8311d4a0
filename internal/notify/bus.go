package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogBus publishes events as structured log lines. This is the host's
// delivery guarantee: whoever tails the log gets the stream.
type LogBus struct {
	log zerolog.Logger
}

func NewLogBus(log zerolog.Logger) *LogBus {
	return &LogBus{log: log}
}

func (b *LogBus) Publish(ctx context.Context, event Event) {
	b.log.Info().
		Str("topic", event.Topic()).
		Interface("event", event).
		Msg("event")
}

// Recorder keeps published events in order for assertions. Test use only.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(ctx context.Context, event Event) {
	r.Events = append(r.Events, event)
}

// Topics returns the topic of every recorded event in publish order.
func (r *Recorder) Topics() []string {
	topics := make([]string, len(r.Events))
	for i, e := range r.Events {
		topics[i] = e.Topic()
	}
	return topics
}

var (
	_ Bus = (*LogBus)(nil)
	_ Bus = (*Recorder)(nil)
)
