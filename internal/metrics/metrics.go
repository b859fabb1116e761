package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CodesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_verification_codes_issued_total",
		Help: "Total number of verification codes issued",
	})
	MailSends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_mail_sends_total",
		Help: "Verification mail delivery attempts by outcome",
	}, []string{"outcome"})
	MessagesPosted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_posted_total",
		Help: "Total number of chat messages posted by kind",
	}, []string{"kind"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(CodesIssued, MailSends, MessagesPosted, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
