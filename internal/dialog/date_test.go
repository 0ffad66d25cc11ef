package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"25.12.2026", time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local), true},
		{"1.1.2027", time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local), true},
		{"01.01.2027", time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local), true},
		{"29.02.2028", time.Date(2028, 2, 29, 0, 0, 0, 0, time.Local), true},
		{"29.02.2027", time.Time{}, false}, // not a leap year
		{"31.04.2026", time.Time{}, false},
		{"32.01.2026", time.Time{}, false},
		{"0.01.2026", time.Time{}, false},
		{"15.13.2026", time.Time{}, false},
		{"2026.12.25", time.Time{}, false},
		{"25/12/2026", time.Time{}, false},
		{"25.12.26", time.Time{}, false},
		{"25.12.2026 extra", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDueDate(tc.input)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %v want %v", got, tc.want)
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 9, 1, 18, 45, 12, 99, time.Local)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), startOfDay(in))
}
