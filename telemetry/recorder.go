// Package telemetry records per-frame body trajectories as CSV.
package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Sample is one body's state at the end of a committed frame.
type Sample struct {
	Frame  uint64  `csv:"frame"`
	Entity string  `csv:"entity"`
	Model  string  `csv:"model"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
	QW     float64 `csv:"qw"`
	QX     float64 `csv:"qx"`
	QY     float64 `csv:"qy"`
	QZ     float64 `csv:"qz"`
	VX     float64 `csv:"vx"`
	VY     float64 `csv:"vy"`
	VZ     float64 `csv:"vz"`
}

// Recorder buffers samples for the current frame and writes them on Flush.
// A nil Recorder drops everything.
type Recorder struct {
	out           io.Writer
	every         uint64
	pending       []Sample
	headerWritten bool
	rows          int
}

// NewRecorder writes to out, keeping one frame in every. every <= 1 keeps
// all frames.
func NewRecorder(out io.Writer, every uint64) *Recorder {
	if every == 0 {
		every = 1
	}
	return &Recorder{out: out, every: every}
}

// Wants reports whether samples for frame should be collected.
func (r *Recorder) Wants(frame uint64) bool {
	return r != nil && frame%r.every == 0
}

func (r *Recorder) Add(s Sample) {
	if r == nil {
		return
	}
	r.pending = append(r.pending, s)
}

// Flush writes pending samples, with a header before the first batch.
func (r *Recorder) Flush() error {
	if r == nil || len(r.pending) == 0 {
		return nil
	}

	records := r.pending
	r.pending = nil

	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	r.rows += len(records)
	return nil
}

// Discard drops samples collected for a frame that was not committed.
func (r *Recorder) Discard() {
	if r == nil {
		return
	}
	r.pending = nil
}

// Rows is the number of samples written so far.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// ReadSamples parses a trace written by a Recorder.
func ReadSamples(in io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(in, &samples); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return samples, nil
}
