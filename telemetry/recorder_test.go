package telemetry

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecorderWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, 1)

	r.Add(Sample{Frame: 0, Entity: "0:0", Model: "ball", Y: 5, QW: 1})
	r.Add(Sample{Frame: 0, Entity: "1:0", Model: "wall", QW: 1})
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	r.Add(Sample{Frame: 1, Entity: "0:0", Model: "ball", Y: 4.5, VY: -0.5, QW: 1})
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "frame,entity,model,x,y,z") {
		t.Fatalf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "frame,") != 1 {
		t.Fatalf("header written more than once")
	}
	if r.Rows() != 3 {
		t.Fatalf("rows = %d", r.Rows())
	}

	samples, err := ReadSamples(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(samples) != 3 || samples[2].VY != -0.5 || samples[1].Model != "wall" {
		t.Fatalf("samples = %+v", samples)
	}
}

func TestRecorderDiscardAndSampling(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, 3)

	cases := []struct {
		frame uint64
		want  bool
	}{{0, true}, {1, false}, {2, false}, {3, true}, {7, false}, {9, true}}
	for _, c := range cases {
		if got := r.Wants(c.frame); got != c.want {
			t.Fatalf("Wants(%d) = %v, want %v", c.frame, got, c.want)
		}
	}

	r.Add(Sample{Frame: 3})
	r.Discard()
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if buf.Len() != 0 || r.Rows() != 0 {
		t.Fatalf("discarded samples were written: %q", buf.String())
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Add(Sample{})
	r.Discard()
	if r.Wants(0) || r.Rows() != 0 {
		t.Fatalf("nil recorder should be inert")
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}
