// Package feed fans interpolated marker positions out to any number
// of listening UI surfaces. It is the rendering side of the position
// pipeline: the interpolator calls SetMarkerPosition once per frame
// and the feed relays each frame to every subscriber.
package feed

import "sync"

// subscriberBuffer absorbs short bursts; a subscriber that falls
// further behind loses frames rather than stalling the animation.
const subscriberBuffer = 64

// MarkerUpdate is a single rendered marker frame.
type MarkerUpdate struct {
	Key string  `json:"key"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PositionFeed broadcasts marker frames to subscribers.
type PositionFeed struct {
	mu   sync.Mutex
	subs map[chan MarkerUpdate]struct{}
}

// New creates a PositionFeed with no subscribers.
func New() *PositionFeed {
	return &PositionFeed{subs: make(map[chan MarkerUpdate]struct{})}
}

// SetMarkerPosition relays one frame to every subscriber. Slow
// subscribers are skipped, never waited on.
func (f *PositionFeed) SetMarkerPosition(key string, lat, lng float64) {
	u := MarkerUpdate{Key: key, Lat: lat, Lng: lng}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Subscribe registers a listener and returns its channel plus a
// cancel function that must be called when the listener goes away.
func (f *PositionFeed) Subscribe() (<-chan MarkerUpdate, func()) {
	ch := make(chan MarkerUpdate, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports the current listener count.
func (f *PositionFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
