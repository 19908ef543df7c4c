package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "groupwarden_event_duration_sec",
	Help: "Total duration of moderation event processing",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupwarden_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupwarden_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var decisionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupwarden_decisions",
	Help: "Number of decisions returned, by kind and reason",
}, []string{"kind", "reason"})

var escalationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupwarden_escalations",
	Help: "Number of warnings escalated by a penalty ladder",
}, []string{"action"})

var misconfiguredGroupCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "groupwarden_misconfigured_group_events",
	Help: "Number of events allowed through because the group config failed validation",
})

var subscriptionLookupCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupwarden_subscription_lookups",
	Help: "Number of mandatory-channel subscription lookups (external API calls)",
}, []string{"result"})

var subscriptionCacheHitCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "groupwarden_subscription_cache_hits",
	Help: "Number of subscription lookups served from cache",
})
