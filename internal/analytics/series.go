// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package analytics

// SeriesLength is the number of samples in the traffic window.
const SeriesLength = 13

// amplification scales per-tick deltas so a single event is visible on the
// 0-100 chart.
const amplification = 20

// Totals are the absolute counts observed on one poll.
type Totals struct {
	Visits    int64 `json:"visits"`
	Comments  int64 `json:"comments"`
	Reactions int64 `json:"reactions"`
	Clicks    int64 `json:"clicks"`
}

// Sample is one point of the traffic chart, each value in [0, 100].
type Sample struct {
	Inbound  int `json:"inbound"`
	Outbound int `json:"outbound"`
}

// Series is a fixed-length sliding window of traffic samples. It is an
// amplified, clamped heartbeat of activity, not an event log. Not safe for
// concurrent use.
type Series struct {
	samples     [SeriesLength]Sample
	prev        Totals
	initialized bool
}

// NewSeries returns a zeroed window awaiting its baseline.
func NewSeries() *Series {
	return &Series{}
}

// Observe feeds the totals from one poll. The first call only records the
// baseline and returns false. Later calls push a new sample, drop the
// oldest and return the sample.
func (s *Series) Observe(t Totals) (Sample, bool) {
	if !s.initialized {
		s.prev = t
		s.initialized = true
		return Sample{}, false
	}

	dVisits := delta(t.Visits, s.prev.Visits)
	dComments := delta(t.Comments, s.prev.Comments)
	dClicks := delta(t.Clicks, s.prev.Clicks)
	dReactions := delta(t.Reactions, s.prev.Reactions)

	sample := Sample{
		Inbound:  clamp((dVisits + dComments) * amplification),
		Outbound: clamp((dClicks + dReactions) * amplification),
	}

	copy(s.samples[:], s.samples[1:])
	s.samples[SeriesLength-1] = sample
	s.prev = t
	return sample, true
}

// Samples returns the window, oldest first.
func (s *Series) Samples() []Sample {
	out := make([]Sample, SeriesLength)
	copy(out, s.samples[:])
	return out
}

// Initialized reports whether a baseline has been recorded.
func (s *Series) Initialized() bool {
	return s.initialized
}

func delta(cur, prev int64) int64 {
	return max(0, cur-prev)
}

func clamp(v int64) int {
	return int(min(max(v, 0), 100))
}
