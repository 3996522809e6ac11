package kml

import (
	"sync"

	"github.com/google/uuid"
)

// Event reports a click on a feature. Exactly one of the variant fields is
// set, matching Kind.
type Event struct {
	Kind      FeatureKind
	FeatureID uuid.UUID

	Marker        *MarkerProperties
	Polyline      *PolylineProperties
	Polygon       *PolygonProperties
	GroundOverlay *GroundOverlayProperties
}

// Publisher fans events out to subscribers in subscription order.
// It is safe for concurrent use.
type Publisher struct {
	mu   sync.RWMutex
	next int
	subs []subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (p *Publisher) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { p.remove(id) })
	}
}

func (p *Publisher) remove(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every current subscriber with e on the calling goroutine.
// Subscribers may subscribe or unsubscribe from inside the callback.
func (p *Publisher) Emit(e Event) {
	p.mu.RLock()
	subs := p.subs
	p.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// Len returns the number of subscribers.
func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
