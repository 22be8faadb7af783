package hostprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawRecordHasFeature(t *testing.T) {
	r := RawRecord{Features: featureSet([]string{"avx2", "", "bmi1"})}

	assert.True(t, r.HasFeature("avx2"))
	assert.True(t, r.HasFeature("bmi1"))
	assert.False(t, r.HasFeature("avx512f"))
	assert.False(t, r.HasFeature(""), "blank fields are dropped, never a feature token")
}

func TestEmptyRecordDegradesToGeneric(t *testing.T) {
	r := empty()

	assert.Equal(t, "generic", r.Vendor)
	assert.Empty(t, r.Features)
	assert.Empty(t, r.Arch)
}

func TestProbeNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Probe()
	})
}

func TestDegradationHookReceivesFallbackMessages(t *testing.T) {
	t.Cleanup(func() { SetDegradationHook(nil) })

	var got []string
	SetDegradationHook(func(msg string, args ...any) {
		got = append(got, msg)
	})

	degraded("probe fell back", "reason", "test")

	assert.Equal(t, []string{"probe fell back"}, got)
}

func TestDegradedIsANoOpWithoutAHook(t *testing.T) {
	SetDegradationHook(nil)
	assert.NotPanics(t, func() {
		degraded("nobody is listening")
	})
}
