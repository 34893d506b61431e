package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var entriesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spolek_audit_entries_total",
	Help: "Audit log entries appended, labelled by action.",
}, []string{"action"})
