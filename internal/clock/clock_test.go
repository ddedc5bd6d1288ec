package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"terrasim/internal/config"
)

func TestAdvance_HourCascade(t *testing.T) {
	cfg := config.Default()
	gt := New()
	gt.Hour = 23

	gt.Advance(cfg)

	assert.Equal(t, 0, gt.Hour)
	assert.Equal(t, 2, gt.Day)
}

// E6: after 24 ticks from epoch, day==2 and hour==0.
func TestAdvance_E6_TwentyFourTicks(t *testing.T) {
	cfg := config.Default()
	gt := New()

	for i := 0; i < 24; i++ {
		gt.Advance(cfg)
	}

	assert.Equal(t, 2, gt.Day)
	assert.Equal(t, 0, gt.Hour)
	assert.Equal(t, 1, gt.Month)
}

func TestAdvance_MonthAndYearCascade(t *testing.T) {
	cfg := config.Default()
	gt := New()
	gt.Hour = 23
	gt.Day = 30
	gt.Month = 12

	gt.Advance(cfg)

	assert.Equal(t, 1, gt.Day)
	assert.Equal(t, 1, gt.Month)
	assert.Equal(t, 2, gt.Year)
}

func TestIsDay_MatchesDaylightWindow(t *testing.T) {
	cfg := config.Default()
	gt := New()
	gt.Month = 1
	gt.Hour = 7
	gt.recompute(cfg)
	assert.True(t, gt.IsDay)

	gt.Hour = 2
	gt.recompute(cfg)
	assert.False(t, gt.IsDay)
}
