package interp

import (
	"math"
	"sync"
	"testing"
	"time"
)

// recordingRenderer captures every marker update, keyed and in order.
type recordingRenderer struct {
	mu    sync.Mutex
	calls map[string][]Point
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{calls: make(map[string][]Point)}
}

func (r *recordingRenderer) SetMarkerPosition(key string, lat, lng float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[key] = append(r.calls[key], Point{Lat: lat, Lng: lng})
}

func (r *recordingRenderer) positions(key string) []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Point, len(r.calls[key]))
	copy(out, r.calls[key])
	return out
}

func TestObserve_FirstObservationPlacesDirectly(t *testing.T) {
	t.Parallel()

	renderer := newRecordingRenderer()
	in := New(renderer, 100*time.Millisecond, 5*time.Millisecond)

	in.Observe("shipment-1", 10, 20)

	got := renderer.positions("shipment-1")
	if len(got) != 1 {
		t.Fatalf("expected exactly one render call, got %d", len(got))
	}
	if got[0].Lat != 10 || got[0].Lng != 20 {
		t.Errorf("expected direct placement at (10, 20), got (%v, %v)", got[0].Lat, got[0].Lng)
	}
}

func TestObserve_InterpolatesTowardTarget(t *testing.T) {
	t.Parallel()

	renderer := newRecordingRenderer()
	in := New(renderer, 100*time.Millisecond, 5*time.Millisecond)

	in.Observe("shipment-1", 10, 10)
	in.Observe("shipment-1", 10.001, 10.001)

	time.Sleep(200 * time.Millisecond)

	positions := renderer.positions("shipment-1")
	if len(positions) < 3 {
		t.Fatalf("expected intermediate frames, got %d positions", len(positions))
	}

	// Every frame lies on the segment between the two observations and
	// latitude never decreases.
	prev := positions[0]
	for i, p := range positions {
		if p.Lat < 10-1e-9 || p.Lat > 10.001+1e-9 {
			t.Errorf("frame %d off segment: lat %v", i, p.Lat)
		}
		if math.Abs(p.Lat-p.Lng) > 1e-9 {
			t.Errorf("frame %d off the straight line: (%v, %v)", i, p.Lat, p.Lng)
		}
		if p.Lat < prev.Lat-1e-9 {
			t.Errorf("frame %d regressed: %v after %v", i, p.Lat, prev.Lat)
		}
		prev = p
	}

	final, ok := in.Rendered("shipment-1")
	if !ok {
		t.Fatal("track lost")
	}
	if math.Abs(final.Lat-10.001) > 1e-9 {
		t.Errorf("animation did not settle on target: %v", final.Lat)
	}
}

func TestObserve_RetargetStartsFromRenderedPosition(t *testing.T) {
	t.Parallel()

	renderer := newRecordingRenderer()
	in := New(renderer, 100*time.Millisecond, 5*time.Millisecond)

	in.Observe("shipment-1", 0, 0)
	in.Observe("shipment-1", 1, 1)
	time.Sleep(40 * time.Millisecond)

	mid, _ := in.Rendered("shipment-1")
	if mid.Lat <= 0 || mid.Lat >= 1 {
		t.Fatalf("expected a partially interpolated position, got %v", mid.Lat)
	}

	// New ping before the prior animation finishes.
	in.Observe("shipment-1", 2, 2)
	time.Sleep(200 * time.Millisecond)

	// No frame after the retarget may sit below the position rendered
	// at retarget time: the marker must never jump backward.
	positions := renderer.positions("shipment-1")
	low := mid.Lat - 1e-6
	sawRetargetFrames := false
	for _, p := range positions {
		if p.Lat > mid.Lat {
			sawRetargetFrames = true
		}
		if sawRetargetFrames && p.Lat < low {
			t.Fatalf("marker jumped backward to %v after retarget at %v", p.Lat, mid.Lat)
		}
	}

	final, _ := in.Rendered("shipment-1")
	if math.Abs(final.Lat-2) > 1e-9 {
		t.Errorf("expected final position 2, got %v", final.Lat)
	}
}

func TestObserve_ThreePingSequenceNeverRegresses(t *testing.T) {
	t.Parallel()

	renderer := newRecordingRenderer()
	in := New(renderer, 60*time.Millisecond, 5*time.Millisecond)

	for _, lat := range []float64{10, 10.001, 10.002} {
		in.Observe("shipment-1", lat, lat)
		time.Sleep(90 * time.Millisecond)
	}

	positions := renderer.positions("shipment-1")
	prev := positions[0]
	for i, p := range positions {
		if p.Lat < prev.Lat-1e-9 {
			t.Fatalf("frame %d regressed to an earlier target: %v after %v", i, p.Lat, prev.Lat)
		}
		prev = p
	}
	if math.Abs(prev.Lat-10.002) > 1e-9 {
		t.Errorf("expected to settle at 10.002, got %v", prev.Lat)
	}
}

func TestObserve_NilRendererDropsSilently(t *testing.T) {
	t.Parallel()

	in := New(nil, 50*time.Millisecond, 5*time.Millisecond)

	in.Observe("shipment-1", 1, 1)
	in.Observe("shipment-1", 2, 2)
	time.Sleep(100 * time.Millisecond)

	// Track state still advances even with no renderer attached.
	p, ok := in.Rendered("shipment-1")
	if !ok {
		t.Fatal("track lost without renderer")
	}
	if math.Abs(p.Lat-2) > 1e-9 {
		t.Errorf("expected rendered position 2, got %v", p.Lat)
	}
}

func TestStop_CancelsInFlightAnimation(t *testing.T) {
	t.Parallel()

	renderer := newRecordingRenderer()
	in := New(renderer, 200*time.Millisecond, 5*time.Millisecond)

	in.Observe("shipment-1", 0, 0)
	in.Observe("shipment-1", 1, 1)
	time.Sleep(20 * time.Millisecond)

	in.Stop("shipment-1")
	count := len(renderer.positions("shipment-1"))
	time.Sleep(60 * time.Millisecond)

	after := len(renderer.positions("shipment-1"))
	// At most one already-in-flight frame may land after Stop.
	if after > count+1 {
		t.Errorf("animation kept running after Stop: %d -> %d frames", count, after)
	}
	if _, ok := in.Rendered("shipment-1"); ok {
		t.Error("track still present after Stop")
	}
}
