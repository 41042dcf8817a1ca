package homomorphism

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeoutStopVersusAbort(t *testing.T) {
	tm := NewTimeout(0)
	require.False(t, tm.ShouldStop())
	require.False(t, tm.Aborted())

	// Stop halts workers without marking the run aborted: this is the
	// winner-found path.
	tm.Stop()
	require.True(t, tm.ShouldStop())
	require.False(t, tm.Aborted())

	// A later Abort still flips the flag (deadline racing a winner).
	tm.Abort()
	require.True(t, tm.Aborted())
}

func TestTimeoutAbortIsIdempotent(t *testing.T) {
	tm := NewTimeout(0)
	tm.Abort()
	tm.Abort()
	tm.Stop()
	require.True(t, tm.ShouldStop())
	require.True(t, tm.Aborted())
}

func TestTimeoutDeadlineFires(t *testing.T) {
	tm := NewTimeout(10 * time.Millisecond)
	defer tm.Release()

	select {
	case <-tm.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("deadline never fired")
	}
	require.True(t, tm.Aborted())
}

func TestTimeoutNoDeadline(t *testing.T) {
	tm := NewTimeout(0)
	defer tm.Release()
	select {
	case <-tm.Done():
		t.Fatal("no deadline was configured")
	case <-time.After(20 * time.Millisecond):
	}
}
