package schedule

import (
	"sort"
	"time"

	"droply/models"
)

// span is a half-open interval [start, end) of UTC instants.
type span struct {
	start time.Time
	end   time.Time
}

func (s span) empty() bool { return !s.end.After(s.start) }

func (s span) overlaps(o span) bool {
	return s.start.Before(o.end) && o.start.Before(s.end)
}

// minuteRange is a half-open [start, end) range of minutes from midnight.
type minuteRange struct {
	start int
	end   int
}

// mergeRuleMinutes unions the minute ranges of all rules for one weekday.
// Overlapping or touching rules collapse into a single range so the same
// wall-clock minute is never emitted twice.
func mergeRuleMinutes(rules []models.AvailabilityRule) []minuteRange {
	ranges := make([]minuteRange, 0, len(rules))
	for _, r := range rules {
		if r.EndMinute > r.StartMinute {
			ranges = append(ranges, minuteRange{start: r.StartMinute, end: r.EndMinute})
		}
	}
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// subtractSpans removes every block from the open spans, splitting spans
// that a block lands in the middle of.
func subtractSpans(open []span, blocks []span) []span {
	for _, block := range blocks {
		if block.empty() {
			continue
		}
		var updated []span
		for _, s := range open {
			if !s.overlaps(block) {
				updated = append(updated, s)
				continue
			}
			if block.start.After(s.start) {
				updated = append(updated, span{start: s.start, end: block.start})
			}
			if block.end.Before(s.end) {
				updated = append(updated, span{start: block.end, end: s.end})
			}
		}
		open = updated
	}
	return open
}

// clampSpan restricts s to the window [from, to).
func clampSpan(s span, from, to time.Time) span {
	if s.start.Before(from) {
		s.start = from
	}
	if s.end.After(to) {
		s.end = to
	}
	return s
}
