package monitoring

import (
	"strconv"
	"sync"
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

	// 训练与成就
	WorkoutsFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workouts_finished_total",
			Help: "Workout sessions credited to a student",
		},
	)

	PointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Points credited from finished workouts",
		},
	)

	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements unlocked, by criteria type",
		},
		[]string{"criteria"},
	)

	AchievementCatalogDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achievement_catalog_degraded_total",
			Help: "Evaluations skipped because the achievement catalog could not be read",
		},
	)

	SessionFinishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_finish_failures_total",
			Help: "Failed finish attempts, by step",
		},
		[]string{"step"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			WorkoutsFinished,
			PointsAwarded,
			AchievementsUnlocked,
			AchievementCatalogDegraded,
			SessionFinishFailures,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
