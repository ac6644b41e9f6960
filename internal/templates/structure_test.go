package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructure(t *testing.T) {
	t.Run("parses tasks with all fields", func(t *testing.T) {
		raw := []byte(`{"tasks":[
			{"title":"Kickoff call","description":"Intro meeting","priority":"high"},
			{"title":"Moodboard","priority":"low"}
		]}`)

		s, err := ParseStructure(raw)
		require.NoError(t, err)
		require.Len(t, s.Tasks, 2)

		assert.Equal(t, "Kickoff call", s.Tasks[0].Title)
		require.NotNil(t, s.Tasks[0].Description)
		assert.Equal(t, "Intro meeting", *s.Tasks[0].Description)
		assert.Equal(t, "high", s.Tasks[0].Priority)

		assert.Equal(t, "Moodboard", s.Tasks[1].Title)
		assert.Nil(t, s.Tasks[1].Description)
		assert.Equal(t, "low", s.Tasks[1].Priority)
	})

	t.Run("empty blob yields empty structure", func(t *testing.T) {
		s, err := ParseStructure(nil)
		require.NoError(t, err)
		assert.Empty(t, s.Tasks)

		s, err = ParseStructure([]byte{})
		require.NoError(t, err)
		assert.Empty(t, s.Tasks)
	})

	t.Run("structure without tasks yields empty list", func(t *testing.T) {
		s, err := ParseStructure([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, s.Tasks)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := ParseStructure([]byte(`{"tasks": [`))
		assert.ErrorIs(t, err, ErrBadStructure)
	})

	t.Run("wrong shape is rejected", func(t *testing.T) {
		_, err := ParseStructure([]byte(`{"tasks": "not a list"}`))
		assert.ErrorIs(t, err, ErrBadStructure)
	})
}
