package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/cases", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/cases", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/cases", "POST", 201, time.Millisecond)
	m.RecordError("/cases/1", "GET", "ACCESS_DENIED")
	m.RecordAuthzDecision("case", "DENY")
	m.RecordAuthzDecision("case", "DENY")
	m.RecordAuthzDecision("task", "ALLOW")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/cases|GET|200"])
	assert.Equal(t, int64(1), snap.Requests["/cases|POST|201"])
	assert.Equal(t, int64(1), snap.Errors["/cases/1|GET|ACCESS_DENIED"])
	assert.Equal(t, int64(2), snap.AuthzDecisions["case|DENY"])
	assert.Equal(t, int64(1), snap.AuthzDecisions["task|ALLOW"])
	assert.Equal(t, int64(15), snap.LatencySumMs["/cases|GET"])
}

func TestMetricsSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthzDecision("case", "ALLOW")

	snap := m.Snapshot()
	snap.AuthzDecisions["case|ALLOW"] = 99

	assert.Equal(t, int64(1), m.Snapshot().AuthzDecisions["case|ALLOW"])
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "NOT_FOUND")
	m.RecordAuthzDecision("case", "DENY")
	assert.Empty(t, m.Snapshot().Requests)
}
