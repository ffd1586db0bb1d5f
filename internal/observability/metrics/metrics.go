package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Total number of signup attempts.",
		},
		[]string{"result"},
	)

	SigninsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signins_total",
			Help: "Total number of sign-in attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of token pairs issued or rotated.",
		},
		[]string{"flow", "result"},
	)

	OTPsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_total",
			Help: "OTP issuance and verification outcomes.",
		},
		[]string{"op", "purpose", "result"},
	)

	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outbound email deliveries by provider.",
		},
		[]string{"provider", "result"},
	)

	EnrollmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "program_enrollments_total",
			Help: "Enrollment state changes.",
		},
		[]string{"action", "result"},
	)

	WorkoutsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workouts_completed_total",
			Help: "Workout completion attempts.",
		},
		[]string{"result"},
	)
)

// MustRegister registers every collector with the default registry, labelled
// with the service name.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignupsTotal,
		SigninsTotal,
		TokensIssuedTotal,
		OTPsTotal,
		EmailsSentTotal,
		EnrollmentsTotal,
		WorkoutsCompletedTotal,
	)
}

// Result collapses an error into the label value used by every counter here.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
