package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestVote_CountsByKindAndTransition(t *testing.T) {
	before := testutil.ToFloat64(votes.WithLabelValues("post", "flipped"))

	Vote("post", "flipped")

	require.Equal(t, before+1, testutil.ToFloat64(votes.WithLabelValues("post", "flipped")))
}

func TestDeniedAndUnban(t *testing.T) {
	adult := testutil.ToFloat64(denials.WithLabelValues("adult"))
	sweeper := testutil.ToFloat64(unbans.WithLabelValues(UnbanSweeper))

	Denied("adult")
	Unban(UnbanSweeper)
	Unban(UnbanSweeper)

	require.Equal(t, adult+1, testutil.ToFloat64(denials.WithLabelValues("adult")))
	require.Equal(t, sweeper+2, testutil.ToFloat64(unbans.WithLabelValues(UnbanSweeper)))
}

func TestReplay(t *testing.T) {
	before := testutil.ToFloat64(replays)
	Replay()
	require.Equal(t, before+1, testutil.ToFloat64(replays))
}

func TestObserveHTTP_UnmatchedRoute(t *testing.T) {
	ObserveHTTP("", "GET", 404, time.Millisecond)
	ObserveHTTP("/posts/{id}", "GET", 200, 10*time.Millisecond)

	require.Equal(t, 2, testutil.CollectAndCount(httpDuration, "social_http_request_duration_seconds"))
}
