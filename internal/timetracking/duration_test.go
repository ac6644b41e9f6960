package timetracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMinutes(t *testing.T) {
	base := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("whole minutes", func(t *testing.T) {
		assert.Equal(t, 90, Minutes(base, base.Add(90*time.Minute)))
	})

	t.Run("rounds to nearest minute", func(t *testing.T) {
		assert.Equal(t, 33, Minutes(base, base.Add(32*time.Minute+30*time.Second)))
		assert.Equal(t, 32, Minutes(base, base.Add(32*time.Minute+29*time.Second)))
	})

	t.Run("sub-30s entry rounds to zero", func(t *testing.T) {
		assert.Equal(t, 0, Minutes(base, base.Add(20*time.Second)))
	})

	t.Run("negative span clamps to zero", func(t *testing.T) {
		assert.Equal(t, 0, Minutes(base, base.Add(-10*time.Minute)))
	})

	t.Run("zero span", func(t *testing.T) {
		assert.Equal(t, 0, Minutes(base, base))
	})
}
