package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuspage/app/internal/models"
	"statuspage/app/internal/status"
)

func window(t *testing.T, start, end int64) models.TimeWindow {
	t.Helper()
	w, err := models.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func sample(tag string, ts int64, st status.Status) models.StatusSample {
	return models.StatusSample{MonitorTag: tag, Timestamp: ts, Status: st}
}

func TestInterpolate_Density(t *testing.T) {
	w := window(t, 0, 600) // 11 minutes inclusive

	out, err := Interpolate(w, nil, nil, status.Up)
	require.NoError(t, err)
	assert.Len(t, out, w.Minutes())
	assert.Len(t, out, 11)

	for i, s := range out {
		assert.Equal(t, w.Start+int64(i)*60, s.Timestamp)
	}
}

func TestInterpolate_AnchorPropagates(t *testing.T) {
	w := window(t, 0, 240)
	anchor := status.Degraded

	out, err := Interpolate(w, nil, &anchor, status.Up)
	require.NoError(t, err)
	for _, s := range out {
		assert.Equal(t, status.Degraded, s.Status)
	}
}

func TestInterpolate_NoAnchorUsesDefault(t *testing.T) {
	w := window(t, 0, 120)

	out, err := Interpolate(w, nil, nil, status.Down)
	require.NoError(t, err)
	for _, s := range out {
		assert.Equal(t, status.Down, s.Status)
	}
}

func TestInterpolate_CursorAdvancesAtSamples(t *testing.T) {
	w := window(t, 0, 300)
	raw := []models.StatusSample{
		sample("svc", 60, status.Down),
		sample("svc", 240, status.Up),
	}
	anchor := status.Up

	out, err := Interpolate(w, raw, &anchor, status.Up)
	require.NoError(t, err)
	require.Len(t, out, 6)

	want := []status.Status{status.Up, status.Down, status.Down, status.Down, status.Up, status.Up}
	for i, st := range want {
		assert.Equal(t, st, out[i].Status, "minute %d", i)
	}
}

func TestInterpolate_RawSampleWinsOverCursor(t *testing.T) {
	w := window(t, 0, 60)
	raw := []models.StatusSample{sample("svc", 0, status.Degraded)}
	anchor := status.Up

	out, err := Interpolate(w, raw, &anchor, status.Up)
	require.NoError(t, err)
	assert.Equal(t, status.Degraded, out[0].Status)
	assert.Equal(t, status.Degraded, out[1].Status, "cursor should carry the raw value forward")
}

func TestInterpolate_SingleMinuteWindow(t *testing.T) {
	w := window(t, 600, 600)

	out, err := Interpolate(w, nil, nil, status.Up)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestInterpolate_KeepsRawLatency(t *testing.T) {
	w := window(t, 0, 60)
	ms := 42
	raw := []models.StatusSample{{MonitorTag: "svc", Timestamp: 0, Status: status.Up, LatencyMS: &ms}}

	out, err := Interpolate(w, raw, nil, status.Up)
	require.NoError(t, err)
	require.NotNil(t, out[0].LatencyMS)
	assert.Equal(t, 42, *out[0].LatencyMS)
	assert.Nil(t, out[1].LatencyMS, "synthetic samples carry no latency")
}

func TestInterpolate_InvalidWindow(t *testing.T) {
	_, err := Interpolate(models.TimeWindow{Start: 600, End: 0}, nil, nil, status.Up)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}

func TestInterpolate_Deterministic(t *testing.T) {
	w := window(t, 0, 1440)
	raw := []models.StatusSample{
		sample("svc", 120, status.Down),
		sample("svc", 720, status.Up),
	}
	anchor := status.Degraded

	a, err := Interpolate(w, raw, &anchor, status.Up)
	require.NoError(t, err)
	b, err := Interpolate(w, raw, &anchor, status.Up)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
