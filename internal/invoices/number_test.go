package invoices

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumber(t *testing.T) {
	t.Run("has the INV prefix and a millisecond timestamp", func(t *testing.T) {
		before := time.Now().UnixMilli()
		n := newNumber()
		after := time.Now().UnixMilli()

		require.True(t, strings.HasPrefix(n, "INV-"))

		ms, err := strconv.ParseInt(strings.TrimPrefix(n, "INV-"), 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ms, before)
		assert.LessOrEqual(t, ms, after)
	})
}
