package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg, "clan")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "JoinClan", "ClanService")
	m.RecordOperationAttempt(ctx, "JoinClan", "ClanService")
	m.RecordOperationSuccess(ctx, "JoinClan", "ClanService")
	m.RecordOperationFailure(ctx, "JoinClan", "ClanService")
	m.RecordOperationDuration(ctx, "JoinClan", "ClanService", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("JoinClan", "ClanService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("JoinClan", "ClanService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("JoinClan", "ClanService")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg, "clan")
	require.NoError(t, err)

	_, err = NewPrometheusMetrics(reg, "clan")
	assert.Error(t, err)
}

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc")
	assert.Equal(t, "abc", CorrelationID(ctx))
	assert.Equal(t, "", CorrelationID(context.Background()))
	assert.Equal(t, "abc", CorrelationAttr(ctx).Value.String())
}
