package calendar

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The special date columns are TEXT NOT NULL with '' meaning unset, so the
// write helper must never produce NULL for a zero Date.
func TestDateParamUnsetDatesStoreAsEmptyString(t *testing.T) {
	assert.Equal(t, "", dateParam(Date{}))
	assert.Equal(t, "2024-06-07", dateParam(Date{2024, time.June, 7}))
}

func TestDateParamRoundTripsThroughNullDate(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		d, err := nullDate(sql.NullString{String: dateParam(Date{}), Valid: true})
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("set", func(t *testing.T) {
		want := Date{2024, time.June, 7}
		d, err := nullDate(sql.NullString{String: dateParam(want), Valid: true})
		require.NoError(t, err)
		assert.Equal(t, want, d)
	})
}
