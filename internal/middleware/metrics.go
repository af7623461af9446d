package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carezy_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AssistantRequests counts generative-language API calls by route and outcome.
	AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carezy_assistant_requests_total",
		Help: "Total number of assistant completion calls by route and outcome",
	}, []string{"route", "outcome"})

	// OTPEvents counts password-reset OTP events by stage and outcome.
	OTPEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carezy_otp_events_total",
		Help: "Total number of OTP issue/redeem events by outcome",
	}, []string{"stage", "outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-metrics middleware backed by the given collector.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
