package monitoring

import (
	"dream_site_backend/internal/scoring"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AssessmentsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dream_assessments_started_total",
			Help: "Total number of DREAM audits started",
		},
		[]string{"tier"},
	)

	AssessmentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dream_assessments_completed_total",
			Help: "Total number of DREAM audits completed",
		},
		[]string{"tier"},
	)

	PillarScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dream_pillar_score",
			Help:    "Distribution of completed audit scores per pillar",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"pillar"},
	)

	ReferralClicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dream_referral_clicks_total",
			Help: "Total number of tracked affiliate link clicks",
		},
	)

	BackgroundJobFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dream_background_job_failures_total",
			Help: "Failed post-completion jobs",
		},
		[]string{"job"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AssessmentsStarted)
	prometheus.MustRegister(AssessmentsCompleted)
	prometheus.MustRegister(PillarScore)
	prometheus.MustRegister(ReferralClicks)
	prometheus.MustRegister(BackgroundJobFailures)
}

// ObserveCompletion 记录一次完成的测评
func ObserveCompletion(tier scoring.Tier, scores scoring.DreamScores) {
	AssessmentsCompleted.WithLabelValues(string(tier)).Inc()
	for _, p := range scoring.AllPillars {
		PillarScore.WithLabelValues(string(p)).Observe(scores.Pillar(p))
	}
	PillarScore.WithLabelValues("overall").Observe(scores.Overall)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
