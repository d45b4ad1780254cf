package email

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conecta_emails_sent_total",
		Help: "Total number of emails sent, by kind.",
	}, []string{"kind"})

	emailsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conecta_emails_failed_total",
		Help: "Total number of email send failures, by kind.",
	}, []string{"kind"})
)
