package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in       string
		expected TimeOfDay
		wantErr  bool
	}{
		{"08:30", TimeOfDay{8, 30}, false},
		{"8:30", TimeOfDay{8, 30}, false},
		{"8:30:00", TimeOfDay{8, 30}, false},
		{"12:00:59", TimeOfDay{12, 0}, false},
		{" 23:59 ", TimeOfDay{23, 59}, false},
		{"24:00", TimeOfDay{}, true},
		{"8h30", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTimeOfDayOf_TruncatesSeconds(t *testing.T) {
	a := TimeOfDayOf(time.Date(1970, 1, 1, 8, 30, 0, 0, time.UTC))
	b := TimeOfDayOf(time.Date(2022, 4, 20, 8, 30, 45, 999, time.Local))

	assert.True(t, a.Equal(b))
	assert.Equal(t, "08:30", b.String())
}

func TestNewTimeOfDay(t *testing.T) {
	_, err := NewTimeOfDay(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

	_, err = NewTimeOfDay(10, 60)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

	tod, err := NewTimeOfDay(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "00:00", tod.String())
}
