package postgres

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGeneratorIsMonotonicWithinMillisecond(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	gen := NewULIDGenerator()
	gen.now = func() time.Time { return fixed }

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		assert.Less(t, prev, next)
		prev = next
	}

	id, err := ulid.Parse(prev)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), id.Time())
}
