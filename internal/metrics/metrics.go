// Package metrics exposes Prometheus counters for the sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements the metrics hooks of the synchronizer and the
// emoji tracker on top of Prometheus counters.
type Collector struct {
	pagesFetched prometheus.Counter
	statusesSeen prometheus.Counter
	newBookmarks prometheus.Counter
	fullSyncs    *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	emojiRefresh *prometheus.CounterVec
}

// NewCollector builds the counters and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "pages_fetched_total",
			Help:      "Bookmark pages fetched from the home instance.",
		}),
		statusesSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "statuses_fetched_total",
			Help:      "Bookmarked statuses received across all pages.",
		}),
		newBookmarks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "new_bookmarks_total",
			Help:      "Bookmarks discovered by incremental refreshes.",
		}),
		fullSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "full_syncs_total",
			Help:      "Full synchronization attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "refreshes_total",
			Help:      "Incremental refresh attempts by outcome.",
		}, []string{"outcome"}),
		emojiRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedimark",
			Name:      "emoji_refreshes_total",
			Help:      "Custom emoji set refreshes by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.pagesFetched,
		c.statusesSeen,
		c.newBookmarks,
		c.fullSyncs,
		c.refreshes,
		c.emojiRefresh,
	)
	return c
}

func (c *Collector) RecordPageFetched(count int) {
	c.pagesFetched.Inc()
	c.statusesSeen.Add(float64(count))
}

func (c *Collector) RecordFullSync(success bool) {
	c.fullSyncs.WithLabelValues(outcome(success)).Inc()
}

func (c *Collector) RecordRefresh(success bool) {
	c.refreshes.WithLabelValues(outcome(success)).Inc()
}

func (c *Collector) RecordNewBookmarks(count int) {
	c.newBookmarks.Add(float64(count))
}

func (c *Collector) RecordEmojiRefresh(success bool) {
	c.emojiRefresh.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
