package hiyauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts logins that issued a pair.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricLoginRateLimited counts throttled logins.
	MetricLoginRateLimited
	// MetricPairIssued counts every token pair minted (login and refresh).
	MetricPairIssued
	// MetricRefreshSuccess counts successful pair rotations.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refresh attempts rejected by the protocol.
	MetricRefreshFailure
	// MetricPairRevoked counts explicit invalidations that changed the set.
	MetricPairRevoked
	// MetricSessionResolved counts requests that resolved to a session.
	MetricSessionResolved
	// MetricSessionRejected counts requests whose token failed validation or
	// was revoked.
	MetricSessionRejected
	// MetricAccountCreated counts new local accounts.
	MetricAccountCreated

	metricCount
)

var metricNames = map[MetricID]string{
	MetricLoginSuccess:     "hiyauth_login_success_total",
	MetricLoginFailure:     "hiyauth_login_failure_total",
	MetricLoginRateLimited: "hiyauth_login_rate_limited_total",
	MetricPairIssued:       "hiyauth_pair_issued_total",
	MetricRefreshSuccess:   "hiyauth_refresh_success_total",
	MetricRefreshFailure:   "hiyauth_refresh_failure_total",
	MetricPairRevoked:      "hiyauth_pair_revoked_total",
	MetricSessionResolved:  "hiyauth_session_resolved_total",
	MetricSessionRejected:  "hiyauth_session_rejected_total",
	MetricAccountCreated:   "hiyauth_account_created_total",
}

// Name returns the stable exported name for the counter.
func (id MetricID) Name() string { return metricNames[id] }

// MetricIDs lists every counter id in declaration order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, 0, metricCount)
	for id := MetricID(0); id < metricCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Metrics is a fixed set of lock-free counters.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc adds one to the counter. Safe on a nil receiver so disabled metrics cost
// a single branch.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
