package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	InitialsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "initial_emails_sent_total",
			Help: "Total initial outreach emails sent",
		},
	)

	AutoRepliesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_replies_sent_total",
			Help: "Total auto-replies sent to lead replies",
		},
	)

	FollowupsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_sent_total",
			Help: "Total follow-up emails sent",
		},
	)

	SendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "send_failures_total",
			Help: "Total failed outbound sends",
		},
	)

	RepliesCaptured = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "replies_captured_total",
			Help: "Total inbound replies captured from known leads",
		},
	)

	PollFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_failures_total",
			Help: "Total failed inbox polls",
		},
	)
)

func Init() {
	prometheus.MustRegister(InitialsSent)
	prometheus.MustRegister(AutoRepliesSent)
	prometheus.MustRegister(FollowupsSent)
	prometheus.MustRegister(SendFailures)
	prometheus.MustRegister(RepliesCaptured)
	prometheus.MustRegister(PollFailures)
}
