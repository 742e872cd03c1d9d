package interp

import (
	"sync"
	"time"
)

const (
	// DefaultDuration matches the expected ping cadence so a marker
	// arrives at its target roughly when the next ping is due.
	DefaultDuration = 3 * time.Second

	// DefaultFrame is the animation frame interval.
	DefaultFrame = 50 * time.Millisecond
)

// Renderer is the external rendering capability: it accepts marker
// position updates at arbitrary frequency. Implementations must not
// call back into the Interpolator.
type Renderer interface {
	SetMarkerPosition(key string, lat, lng float64)
}

// Point is a rendered coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// track holds per-entity animation state. gen increments on every
// retarget; an animation whose generation is stale exits without
// touching the track.
type track struct {
	current Point
	gen     uint64
}

// Interpolator turns sparse position observations into smooth motion.
// The first observation for a key places the marker directly; each
// subsequent observation animates from the currently rendered position
// (not the previous target) to the new target over a fixed duration.
type Interpolator struct {
	mu       sync.Mutex
	renderer Renderer
	duration time.Duration
	frame    time.Duration
	tracks   map[string]*track
}

// New creates an Interpolator. A nil renderer is allowed: frames are
// dropped silently until one is attached.
func New(renderer Renderer, duration, frame time.Duration) *Interpolator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Interpolator{
		renderer: renderer,
		duration: duration,
		frame:    frame,
		tracks:   make(map[string]*track),
	}
}

// Attach sets the renderer. Positions observed while detached are kept
// as track state and picked up by the next animation.
func (in *Interpolator) Attach(renderer Renderer) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.renderer = renderer
}

// Observe records a new target position for key. In-flight animation
// for the key is superseded and the new one starts from the currently
// rendered point, so the marker never jumps backward.
func (in *Interpolator) Observe(key string, lat, lng float64) {
	target := Point{Lat: lat, Lng: lng}

	in.mu.Lock()
	t, ok := in.tracks[key]
	if !ok {
		t = &track{current: target}
		in.tracks[key] = t
		in.render(key, target)
		in.mu.Unlock()
		return
	}
	t.gen++
	gen := t.gen
	start := t.current
	in.mu.Unlock()

	go in.animate(key, t, gen, start, target)
}

// Rendered returns the currently rendered position for key.
func (in *Interpolator) Rendered(key string) (Point, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	t, ok := in.tracks[key]
	if !ok {
		return Point{}, false
	}
	return t.current, true
}

// Stop cancels any in-flight animation for key and forgets the track.
func (in *Interpolator) Stop(key string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.tracks[key]; ok {
		t.gen++ // invalidates the running animation
		delete(in.tracks, key)
	}
}

// StopAll cancels every in-flight animation.
func (in *Interpolator) StopAll() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for key, t := range in.tracks {
		t.gen++
		delete(in.tracks, key)
	}
}

// animate runs one linear animation from start to target. Progress is
// elapsed-time based so motion speed is independent of frame rate.
func (in *Interpolator) animate(key string, t *track, gen uint64, start, target Point) {
	began := time.Now()
	ticker := time.NewTicker(in.frame)
	defer ticker.Stop()

	for now := range ticker.C {
		progress := float64(now.Sub(began)) / float64(in.duration)
		if progress > 1 {
			progress = 1
		}
		pos := Point{
			Lat: start.Lat + (target.Lat-start.Lat)*progress,
			Lng: start.Lng + (target.Lng-start.Lng)*progress,
		}

		in.mu.Lock()
		if t.gen != gen {
			// Superseded by a newer observation or stopped.
			in.mu.Unlock()
			return
		}
		t.current = pos
		in.render(key, pos)
		in.mu.Unlock()

		if progress >= 1 {
			return
		}
	}
}

// render forwards to the renderer. Caller holds in.mu.
func (in *Interpolator) render(key string, p Point) {
	if in.renderer == nil {
		return
	}
	in.renderer.SetMarkerPosition(key, p.Lat, p.Lng)
}
