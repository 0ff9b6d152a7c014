// Package history records download attempts made through issued links.
package history

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"secure.links/internal/crypto"
	"secure.links/internal/models"
)

var resolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "securelinks_resolutions_total",
		Help: "Download link resolutions by result.",
	},
	[]string{"result"},
)

// Log keeps the most recent attempts; older ones are evicted once capacity is reached.
type Log struct {
	entries *lru.Cache[string, models.DownloadAttempt]
	now     func() time.Time
}

func New(capacity int) (*Log, error) {
	cache, err := lru.New[string, models.DownloadAttempt](capacity)
	if err != nil {
		return nil, err
	}
	return &Log{entries: cache, now: time.Now}, nil
}

// Record stores an attempt, filling in its id and timestamp.
func (l *Log) Record(attempt models.DownloadAttempt) models.DownloadAttempt {
	attempt.ID = crypto.GenerateID()
	if attempt.At.IsZero() {
		attempt.At = l.now()
	}
	l.entries.Add(attempt.ID, attempt)
	resolutionsTotal.WithLabelValues(string(attempt.Result)).Inc()
	return attempt
}

// List returns attempts newest first.
func (l *Log) List() []models.DownloadAttempt {
	values := l.entries.Values()
	out := make([]models.DownloadAttempt, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		out = append(out, values[i])
	}
	return out
}
