package metrics

import (
	"os"

	"github.com/cherts/rtlog/dispatch"
	"github.com/prometheus/client_golang/prometheus"
)

// CountingHandler counts delivered messages per severity and passes them to the next handler.
type CountingHandler struct {
	next     dispatch.Handler
	messages *prometheus.CounterVec
	bytes    prometheus.Counter
}

// NewCountingHandler creates handler and registers its metrics in reg. Nil next writes messages to standard output.
func NewCountingHandler(next dispatch.Handler, reg prometheus.Registerer) (*CountingHandler, error) {
	if next == nil {
		next = dispatch.NewWriterHandler(os.Stdout)
	}

	h := &CountingHandler{
		next: next,
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rtlog",
			Name:      "messages_total",
			Help:      "Total number of delivered messages.",
		}, []string{"severity"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rtlog",
			Name:      "message_bytes_total",
			Help:      "Total size of delivered messages in bytes.",
		}),
	}

	for _, c := range []prometheus.Collector{h.messages, h.bytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Handle implements dispatch.Handler.
func (h *CountingHandler) Handle(message string, level dispatch.Severity) {
	h.messages.WithLabelValues(level.String()).Inc()
	h.bytes.Add(float64(len(message)))
	h.next.Handle(message, level)
}
