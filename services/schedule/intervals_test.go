package schedule

import (
	"testing"
	"time"

	"droply/models"

	"github.com/stretchr/testify/assert"
)

func TestMergeRuleMinutes(t *testing.T) {
	tests := []struct {
		name  string
		rules []models.AvailabilityRule
		want  []minuteRange
	}{
		{
			name: "disjoint ranges stay separate",
			rules: []models.AvailabilityRule{
				{StartMinute: 540, EndMinute: 720},
				{StartMinute: 780, EndMinute: 1020},
			},
			want: []minuteRange{{start: 540, end: 720}, {start: 780, end: 1020}},
		},
		{
			name: "overlapping ranges collapse",
			rules: []models.AvailabilityRule{
				{StartMinute: 540, EndMinute: 780},
				{StartMinute: 720, EndMinute: 1020},
			},
			want: []minuteRange{{start: 540, end: 1020}},
		},
		{
			name: "touching ranges collapse",
			rules: []models.AvailabilityRule{
				{StartMinute: 540, EndMinute: 720},
				{StartMinute: 720, EndMinute: 900},
			},
			want: []minuteRange{{start: 540, end: 900}},
		},
		{
			name: "unsorted input is handled",
			rules: []models.AvailabilityRule{
				{StartMinute: 780, EndMinute: 1020},
				{StartMinute: 540, EndMinute: 720},
			},
			want: []minuteRange{{start: 540, end: 720}, {start: 780, end: 1020}},
		},
		{
			name:  "degenerate rules are dropped",
			rules: []models.AvailabilityRule{{StartMinute: 600, EndMinute: 600}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeRuleMinutes(tt.rules))
		})
	}
}

func TestSubtractSpans(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2024, 6, 3, h, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		open   []span
		blocks []span
		want   []span
	}{
		{
			name:   "block in the middle splits the span",
			open:   []span{{start: at(9), end: at(17)}},
			blocks: []span{{start: at(12), end: at(13)}},
			want:   []span{{start: at(9), end: at(12)}, {start: at(13), end: at(17)}},
		},
		{
			name:   "block covering the span removes it",
			open:   []span{{start: at(9), end: at(12)}},
			blocks: []span{{start: at(8), end: at(13)}},
			want:   nil,
		},
		{
			name:   "block clipping the front trims it",
			open:   []span{{start: at(9), end: at(17)}},
			blocks: []span{{start: at(8), end: at(10)}},
			want:   []span{{start: at(10), end: at(17)}},
		},
		{
			name:   "non-overlapping block is a no-op",
			open:   []span{{start: at(9), end: at(12)}},
			blocks: []span{{start: at(13), end: at(14)}},
			want:   []span{{start: at(9), end: at(12)}},
		},
		{
			name:   "empty block is ignored",
			open:   []span{{start: at(9), end: at(12)}},
			blocks: []span{{start: at(10), end: at(10)}},
			want:   []span{{start: at(9), end: at(12)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subtractSpans(tt.open, tt.blocks))
		})
	}
}

func TestClampSpan(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2024, 6, 3, h, 0, 0, 0, time.UTC)
	}

	clamped := clampSpan(span{start: at(8), end: at(18)}, at(9), at(17))
	assert.Equal(t, at(9), clamped.start)
	assert.Equal(t, at(17), clamped.end)

	outside := clampSpan(span{start: at(18), end: at(20)}, at(9), at(17))
	assert.True(t, outside.empty())
}
