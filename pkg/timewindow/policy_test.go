package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const istOffset = 330 * time.Minute // UTC+5:30

func TestAllowedHalfOpenInterval(t *testing.T) {
	// 10:00-13:00 IST
	policy := New(istOffset, 10*60, 13*60)

	// 10:00 IST == 04:30 UTC
	atStart := time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)
	assert.True(t, policy.Allowed(atStart), "window start should be allowed")

	// 12:59 IST
	oneBeforeEnd := time.Date(2025, 3, 10, 7, 29, 0, 0, time.UTC)
	assert.True(t, policy.Allowed(oneBeforeEnd), "one minute before end should be allowed")

	// 13:00 IST exactly: end is exclusive
	atEnd := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	assert.False(t, policy.Allowed(atEnd), "end minute itself should be denied")

	// 09:59 IST
	beforeStart := time.Date(2025, 3, 10, 4, 29, 0, 0, time.UTC)
	assert.False(t, policy.Allowed(beforeStart))
}

func TestAllowedIgnoresSeconds(t *testing.T) {
	policy := New(istOffset, 14*60, 19*60)

	// 18:59:59 IST is still inside the window
	lastSecond := time.Date(2025, 6, 1, 13, 29, 59, 0, time.UTC)
	assert.True(t, policy.Allowed(lastSecond))
}

func TestParse(t *testing.T) {
	policy, err := Parse("10:00-11:00", istOffset)
	require.NoError(t, err)

	// 10:30 IST
	inside := time.Date(2025, 1, 15, 5, 0, 0, 0, time.UTC)
	assert.True(t, policy.Allowed(inside))

	// 11:00 IST
	atEnd := time.Date(2025, 1, 15, 5, 30, 0, 0, time.UTC)
	assert.False(t, policy.Allowed(atEnd))

	assert.Equal(t, "10:00-11:00", policy.String())
}

func TestParseRejectsMalformedSpecs(t *testing.T) {
	for _, spec := range []string{"", "10:00", "13:00-10:00", "10:00-10:00", "ten-eleven"} {
		_, err := Parse(spec, istOffset)
		assert.Error(t, err, "spec %q should be rejected", spec)
	}
}
