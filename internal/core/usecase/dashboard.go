package usecase

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
)

const statsCacheKey = "dashboard-stats"

// Dashboard serves the usage summary with a short-lived cache so the
// stats endpoint is not hammered on every view. Stats are decoration: a
// failed fetch yields zero counts and a failure the view may show, but
// never blocks anything else.
type Dashboard struct {
	api   ports.StatsAPI
	cache *gocache.Cache
	log   *slog.Logger
}

func NewDashboard(api ports.StatsAPI, ttl time.Duration, log *slog.Logger) *Dashboard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dashboard{
		api:   api,
		cache: gocache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (d *Dashboard) Stats(ctx context.Context) (domain.DashboardStats, error) {
	if cached, ok := d.cache.Get(statsCacheKey); ok {
		return cached.(domain.DashboardStats), nil
	}

	stats, err := d.api.Stats(ctx)
	if err != nil {
		d.log.Warn("stats_fetch_failed", "error", err)
		return domain.DashboardStats{}, err
	}
	d.cache.SetDefault(statsCacheKey, stats)
	return stats, nil
}

// Invalidate drops the cached summary so the next read refetches. Called
// after actions that change the counts, such as a finished analysis.
func (d *Dashboard) Invalidate() {
	d.cache.Delete(statsCacheKey)
}
