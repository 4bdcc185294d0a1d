// Package leads forwards captured visitor contact details to the sales
// team's external sinks. Delivery is best-effort by design: a sink failure
// is logged and counted, never surfaced to the chat path.
package leads

import (
	"context"
	"time"

	"github.com/samassist/chatwidget/internal/logger"
	"github.com/samassist/chatwidget/internal/observability"
)

// Lead is a prospective customer's contact details plus a short summary of
// what they asked about. Constructed, forwarded, discarded.
type Lead struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Summary string
}

// Sink delivers a lead to one external system.
type Sink interface {
	Name() string
	Send(ctx context.Context, lead Lead) error
}

// Forwarder fans a lead out to every configured sink. Sinks fail
// independently; one misbehaving sink never blocks or aborts the others.
type Forwarder struct {
	sinks       []Sink
	sinkTimeout time.Duration
	metrics     *observability.Metrics
}

func NewForwarder(sinks []Sink, sinkTimeout time.Duration, metrics *observability.Metrics) *Forwarder {
	if sinkTimeout <= 0 {
		sinkTimeout = 10 * time.Second
	}
	return &Forwarder{sinks: sinks, sinkTimeout: sinkTimeout, metrics: metrics}
}

// SinkCount reports how many sinks are wired.
func (f *Forwarder) SinkCount() int {
	return len(f.sinks)
}

// Forward sends the lead to each sink with its own bounded timeout.
// Failures (timeouts included) are ordinary events here: logged, counted,
// not retried.
func (f *Forwarder) Forward(ctx context.Context, lead Lead) {
	for _, sink := range f.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, f.sinkTimeout)
		err := sink.Send(sinkCtx, lead)
		cancel()
		if err != nil {
			if f.metrics != nil {
				f.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			}
			logger.L.Error("lead sink delivery failed",
				"sink", sink.Name(), "lead_id", lead.ID, "error", err)
			continue
		}
		logger.L.Info("lead delivered", "sink", sink.Name(), "lead_id", lead.ID)
	}
}
