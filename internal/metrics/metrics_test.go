package metrics

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(estimations.WithLabelValues("hanafi"))
	IncEstimation("hanafi")
	IncEstimation("hanafi")
	assert.Equal(t, before+2, testutil.ToFloat64(estimations.WithLabelValues("hanafi")))

	before = testutil.ToFloat64(ledgerOps.WithLabelValues("made_up"))
	IncLedger("made_up")
	assert.Equal(t, before+1, testutil.ToFloat64(ledgerOps.WithLabelValues("made_up")))

	before = testutil.ToFloat64(errorsTotal.WithLabelValues("validation"))
	IncError("validation")
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("validation")))

	before = testutil.ToFloat64(updatesProcessed.WithLabelValues("message"))
	IncUpdate("message")
	assert.Equal(t, before+1, testutil.ToFloat64(updatesProcessed.WithLabelValues("message")))

	ObserveUpdateDuration(15 * time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(updateDuration))
}

func TestServeExposesMetrics(t *testing.T) {
	Register()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Serve(ctx, addr)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
