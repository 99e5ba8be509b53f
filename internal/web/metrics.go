package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/theoremoon/articlefeed/internal/feed"
)

const metricsNamespace = "articlefeed"

// Metrics counts feed changes. Each Metrics has its own registry so several
// servers can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	likes     prometheus.Counter
	comments  prometheus.Counter
	published prometheus.Counter
}

func NewMetrics(f feed.Feed) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		likes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "likes_total",
			Help:      "Number of likes given to articles.",
		}),
		comments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "comments_total",
			Help:      "Number of comments added to articles.",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "articles_published_total",
			Help:      "Number of articles published since start.",
		}),
	}

	articles := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "articles",
		Help:      "Number of articles in the feed.",
	}, func() float64 {
		return float64(len(f.Articles()))
	})

	m.Registry.MustRegister(
		m.likes,
		m.comments,
		m.published,
		articles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f.Subscribe(m.observe)
	return m
}

func (m *Metrics) observe(ev feed.Event) {
	switch ev.Kind {
	case feed.EventLiked:
		m.likes.Inc()
	case feed.EventCommented:
		m.comments.Inc()
	case feed.EventPublished:
		m.published.Inc()
	}
}
