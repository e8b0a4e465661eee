package publisher

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestIsPublisherRunningNowWithoutMarker ensures a clean working directory reports no run.
func TestIsPublisherRunningNowWithoutMarker(t *testing.T) {
	t.Chdir(t.TempDir())

	require.False(t, IsPublisherRunningNow(t.Context()))
}

// TestIsPublisherRunningNowWithFreshMarker ensures a fresh marker blocks a second run.
func TestIsPublisherRunningNowWithFreshMarker(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, createMarker())
	require.True(t, IsPublisherRunningNow(t.Context()))
}

// TestIsPublisherRunningNowCleansStaleMarker ensures a marker older than its
// lifetime is removed and no longer blocks a run.
func TestIsPublisherRunningNowCleansStaleMarker(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, createMarker())

	// Backdate the marker well past its lifetime.
	stale := time.Now().Add(-2 * markerLifetime)
	require.NoError(t, os.Chtimes(MarkerFilename, stale, stale))

	require.False(t, IsPublisherRunningNow(t.Context()))

	// Cleanup removed the marker itself.
	_, err := os.Stat(MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestMarkerRoundtrip covers marker creation and best-effort removal.
func TestMarkerRoundtrip(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, createMarker())

	_, err := os.Stat(MarkerFilename)
	require.NoError(t, err)

	removeMarker(t.Context())

	_, err = os.Stat(MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Removing an already absent marker stays silent.
	removeMarker(t.Context())
}
