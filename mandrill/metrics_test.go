package mandrill

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	var results []RecipientResult
	var sendErr error
	client := &mockClient{
		sendMessageFunc: func(ctx context.Context, req *MessageRequest) ([]RecipientResult, error) {
			return results, sendErr
		},
	}
	transport := NewTransport(client, WithMetrics(metrics))

	results = []RecipientResult{{Email: "a@example.com", Status: StatusSent}}
	require.NoError(t, transport.Send(context.Background(), newTestMessage()))

	results = []RecipientResult{
		{Email: "a@example.com", Status: StatusSent},
		{Email: "b@example.com", Status: StatusRejected, RejectReason: "spam"},
	}
	require.NoError(t, transport.Send(context.Background(), newTestMessage()))

	sendErr = errors.New("down")
	require.Error(t, transport.Send(context.Background(), newTestMessage()))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Sends.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Sends.WithLabelValues(OutcomePartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Sends.WithLabelValues(OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Recipients.WithLabelValues(StatusSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Recipients.WithLabelValues(StatusRejected)))

	families, err := reg.Gather()
	require.NoError(t, err)

	var samples uint64
	for _, f := range families {
		if f.GetName() == "test_mandrill_send_duration_seconds" {
			samples = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(3), samples)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.observeSend(OutcomeSuccess, 0)
		m.observeRecipients([]RecipientResult{{Status: StatusSent}})
	})
}
