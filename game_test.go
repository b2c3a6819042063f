package main

import (
	"testing"
	"time"
)

func TestTickDelta(t *testing.T) {
	base := time.Unix(1000, 0)
	cases := []struct {
		name     string
		now      time.Time
		last     time.Time
		fallback float64
		maxDT    float64
		want     float64
	}{
		{"first_tick", base, time.Time{}, 0.02, 0.25, 0.02},
		{"elapsed", base.Add(40 * time.Millisecond), base, 0.02, 0.25, 0.04},
		{"clamped", base.Add(2 * time.Second), base, 0.02, 0.25, 0.25},
		{"unclamped", base.Add(2 * time.Second), base, 0.02, 0, 2},
		{"clock_backwards", base, base.Add(time.Second), 0.02, 0.25, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := tickDelta(c.now, c.last, c.fallback, c.maxDT); got != c.want {
				t.Fatalf("tickDelta = %v, want %v", got, c.want)
			}
		})
	}
}
