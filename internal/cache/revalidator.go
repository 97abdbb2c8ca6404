package cache

import (
	"go.uber.org/zap"

	"github.com/zaqqye/portfolio_backend/internal/metrics"
)

// Publisher receives revalidation events for connected clients.
type Publisher interface {
	Publish(tags []string)
}

// Revalidator is called by every mutating handler once its write is
// committed.
type Revalidator struct {
	pages   *PageCache
	pub     Publisher
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewRevalidator wires the page cache to optional publisher and metrics;
// either may be nil.
func NewRevalidator(pages *PageCache, pub Publisher, m *metrics.Metrics, log *zap.Logger) *Revalidator {
	return &Revalidator{pages: pages, pub: pub, metrics: m, log: log}
}

func (r *Revalidator) Revalidate(tags ...string) {
	if r == nil || len(tags) == 0 {
		return
	}
	dropped := 0
	if r.pages != nil {
		dropped = r.pages.Invalidate(tags...)
	}
	if r.metrics != nil {
		for _, t := range tags {
			r.metrics.Revalidations.WithLabelValues(t).Inc()
		}
	}
	if r.pub != nil {
		r.pub.Publish(tags)
	}
	r.log.Debug("revalidated", zap.Strings("tags", tags), zap.Int("pages", dropped))
}
