package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityFor(t *testing.T) {
	cases := []struct {
		stock int
		want  Severity
		ok    bool
	}{
		{-1, "", false},
		{0, SeverityOut, true},
		{1, SeverityCritical, true},
		{3, SeverityCritical, true},
		{4, SeverityLow, true},
		{10, SeverityLow, true},
		{11, "", false},
		{500, "", false},
	}
	for _, tc := range cases {
		sev, ok := SeverityFor(tc.stock)
		assert.Equal(t, tc.ok, ok, "stock=%d", tc.stock)
		assert.Equal(t, tc.want, sev, "stock=%d", tc.stock)
	}
}

func TestAlertIDDeterministic(t *testing.T) {
	assert.Equal(t, "ring-solitaire-001-critical", AlertID("ring-solitaire-001", SeverityCritical))
	assert.Equal(t, AlertID("p1", SeverityOut), AlertID("p1", SeverityOut))
	assert.NotEqual(t, AlertID("p1", SeverityOut), AlertID("p1", SeverityCritical))
}

func TestThresholdFor(t *testing.T) {
	assert.Equal(t, 10, ThresholdFor(SeverityLow))
	assert.Equal(t, 3, ThresholdFor(SeverityCritical))
	assert.Equal(t, 3, ThresholdFor(SeverityOut))
}
