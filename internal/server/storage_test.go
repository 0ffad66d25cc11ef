package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRowOverdueComputation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		row  taskRow
		want bool
	}{
		{"due in the past", taskRow{DueDate: &past}, true},
		{"due in the future", taskRow{DueDate: &future}, false},
		{"past due but completed", taskRow{DueDate: &past, Completed: true}, false},
		{"no due date", taskRow{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := tc.row.toAPI(nil, now)
			assert.Equal(t, tc.want, task.IsOverdue)
		})
	}
}

func TestTaskRowCategoriesNeverNil(t *testing.T) {
	task := taskRow{ID: "t"}.toAPI(nil, time.Now())
	assert.NotNil(t, task.Categories)
	assert.Empty(t, task.Categories)
}
