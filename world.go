package reach

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EventSink is the interface for optional ECS integration.
// When set on a World, interaction events are forwarded to it.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries one interaction transition.
type InteractionEvent struct {
	Type         EventType
	Interactable *Interactable
	Interactor   *Interactor
	Hand         Hand
	EntityID     uint32
	State        InteractionState
}

// Ticker is anything updated once per rendered frame.
type Ticker interface {
	Update(dt float64)
}

// FixedTicker is anything updated once per fixed simulation step.
type FixedTicker interface {
	FixedUpdate(dt float64)
}

// colliderOwner is implemented by components that carry colliders.
type colliderOwner interface {
	Colliders() []*Collider
}

type interactableOwner interface {
	Base() *Interactable
}

type interactorOwner interface {
	Base() *Interactor
}

type bodyOwner interface {
	Bodies() []*Body
}

type disposer interface {
	Dispose()
}

// configurable components pick up world settings when added.
type configurable interface {
	configure(cfg Config)
}

// triggerState tracks the colliders a trigger overlapped on the last step.
type triggerState struct {
	trigger  *Collider
	contacts []*Collider
}

// World is the top-level object that owns the node tree, colliders, bodies
// and every registered component, and runs the two update cadences.
type World struct {
	root *Node
	cfg  Config
	sink EventSink

	colliders []*Collider
	triggers  []*triggerState
	bodies    []*Body

	tickers []Ticker
	fixed   []FixedTicker

	interactables []*Interactable
	interactors   []*Interactor

	prefabs map[string]func() *Node

	accumulator float64
	time        float64
	steps       uint64
	overlapBuf  []*Collider
	debug       bool
}

// NewWorld creates a world with a pre-created root node.
func NewWorld(cfg Config) *World {
	return &World{
		root:    NewNode("root"),
		cfg:     cfg,
		prefabs: make(map[string]func() *Node),
	}
}

// Root returns the world's root node.
func (w *World) Root() *Node {
	return w.root
}

// Config returns the configuration the world was created with.
func (w *World) Config() Config {
	return w.cfg
}

// Time returns the simulated time in seconds.
func (w *World) Time() float64 {
	return w.time
}

// SetEventSink sets the optional ECS bridge.
func (w *World) SetEventSink(sink EventSink) {
	w.sink = sink
}

// SetDebugMode enables or disables debug logging of every state transition.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
	globalDebug = enabled
}

// --- Registration ---

// Add registers a component with the world. Colliders, bodies, interactables,
// interactors and anything implementing Ticker or FixedTicker are accepted;
// a component may be several of these at once. Tickers run in registration
// order.
func (w *World) Add(v any) {
	switch c := v.(type) {
	case *Collider:
		w.AddCollider(c)
		return
	case *Body:
		w.AddBody(c)
		return
	}
	if c, ok := v.(configurable); ok {
		c.configure(w.cfg)
	}
	if o, ok := v.(interactableOwner); ok {
		ib := o.Base()
		ib.world = w
		w.interactables = append(w.interactables, ib)
	}
	if o, ok := v.(interactorOwner); ok {
		i := o.Base()
		i.world = w
		w.interactors = append(w.interactors, i)
	}
	if o, ok := v.(colliderOwner); ok {
		for _, c := range o.Colliders() {
			w.AddCollider(c)
		}
	}
	if o, ok := v.(bodyOwner); ok {
		for _, b := range o.Bodies() {
			w.AddBody(b)
		}
	}
	if t, ok := v.(FixedTicker); ok {
		w.fixed = append(w.fixed, t)
	}
	if t, ok := v.(Ticker); ok {
		w.tickers = append(w.tickers, t)
	}
}

// Remove unregisters a component previously passed to Add. Interactables
// held by an interactor are released first.
func (w *World) Remove(v any) {
	switch c := v.(type) {
	case *Collider:
		w.RemoveCollider(c)
		return
	case *Body:
		w.bodies = removeItem(w.bodies, c)
		return
	}
	if o, ok := v.(interactableOwner); ok {
		ib := o.Base()
		if d, ok := v.(disposer); ok {
			d.Dispose()
		} else {
			ib.Dispose()
		}
		ib.world = nil
		w.interactables = removeItem(w.interactables, ib)
	}
	if o, ok := v.(interactorOwner); ok {
		i := o.Base()
		i.Dispose()
		i.world = nil
		w.interactors = removeItem(w.interactors, i)
	}
	if o, ok := v.(colliderOwner); ok {
		for _, c := range o.Colliders() {
			w.RemoveCollider(c)
		}
	}
	if o, ok := v.(bodyOwner); ok {
		for _, b := range o.Bodies() {
			w.bodies = removeItem(w.bodies, b)
		}
	}
	if t, ok := v.(FixedTicker); ok {
		w.fixed = removeItem(w.fixed, t)
	}
	if t, ok := v.(Ticker); ok {
		w.tickers = removeItem(w.tickers, t)
	}
}

// AddCollider registers a collider for overlap and raycast queries.
func (w *World) AddCollider(c *Collider) {
	for _, existing := range w.colliders {
		if existing == c {
			return
		}
	}
	w.colliders = append(w.colliders, c)
	if c.IsTrigger {
		w.triggers = append(w.triggers, &triggerState{trigger: c})
	}
}

// RemoveCollider unregisters a collider. Triggers overlapping it receive an
// exit on the next step.
func (w *World) RemoveCollider(c *Collider) {
	w.colliders = removeItem(w.colliders, c)
	for i, ts := range w.triggers {
		if ts.trigger == c {
			w.triggers = append(w.triggers[:i], w.triggers[i+1:]...)
			break
		}
	}
}

// AddBody registers a body for integration. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) {
	if containsItem(w.bodies, b) {
		return
	}
	w.bodies = append(w.bodies, b)
}

// Colliders returns the registered colliders. The returned slice MUST NOT be mutated.
func (w *World) Colliders() []*Collider {
	return w.colliders
}

// Interactables returns the registered interactables. The returned slice MUST NOT be mutated.
func (w *World) Interactables() []*Interactable {
	return w.interactables
}

// Interactors returns the registered interactors. The returned slice MUST NOT be mutated.
func (w *World) Interactors() []*Interactor {
	return w.interactors
}

// --- Prefabs ---

// RegisterPrefab stores a constructor under name.
func (w *World) RegisterPrefab(name string, fn func() *Node) {
	w.prefabs[name] = fn
}

// Instantiate builds a new node tree from the named prefab.
func (w *World) Instantiate(name string) (*Node, error) {
	fn, ok := w.prefabs[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("instantiate %q: %w", name, ErrUnknownPrefab)
	}
	n := fn()
	if n == nil {
		return nil, fmt.Errorf("instantiate %q: %w", name, ErrNoNode)
	}
	return n, nil
}

// --- Update ---

// Update advances the world by one rendered frame of dt seconds: zero or
// more fixed steps, then every Ticker. A panic in any component is recovered
// and logged; the frame always completes.
func (w *World) Update(dt float64) {
	var stats stepStats
	start := time.Now()
	fixed := w.cfg.Physics.FixedStep
	maxSteps := w.cfg.Physics.MaxStepsPerFrame
	w.accumulator += dt
	for w.accumulator >= fixed && stats.fixedSteps < maxSteps {
		w.Step(fixed)
		w.accumulator -= fixed
		stats.fixedSteps++
	}
	if stats.fixedSteps == maxSteps && w.accumulator >= fixed {
		// Too far behind: drop the backlog instead of spiralling.
		w.accumulator = 0
		stats.dropped = true
	}
	stats.fixedTime = time.Since(start)

	start = time.Now()
	for _, t := range w.tickers {
		if err := safeCall("update", func() { t.Update(dt) }); err != nil {
			logger.Error("frame update failed", slog.Any("err", err))
		}
	}
	stats.frameTime = time.Since(start)
	stats.triggerPass = len(w.triggers)
	w.debugLog(stats)
}

// Step runs one fixed simulation step: fixed tickers (hand followers, grab
// restoration), body integration, then the trigger overlap pass.
func (w *World) Step(dt float64) {
	for _, t := range w.fixed {
		if err := safeCall("fixed update", func() { t.FixedUpdate(dt) }); err != nil {
			logger.Error("fixed update failed", slog.Any("err", err))
		}
	}
	gravity := mgl64.Vec3{0, w.cfg.Physics.Gravity, 0}
	for _, b := range w.bodies {
		b.integrate(dt, gravity)
	}
	w.detectOverlaps()
	w.time += dt
	w.steps++
}

// Steps returns the number of fixed steps run so far.
func (w *World) Steps() uint64 {
	return w.steps
}

// --- Queries ---

// SetLayer assigns layer to node and every registered collider on it.
func (w *World) SetLayer(node *Node, layer int) {
	node.Layer = layer
	for _, c := range w.colliders {
		if c.Node == node {
			c.Layer = layer
		}
	}
}

// RaycastAll fills hits with the colliders on a layer in mask that the ray
// hits within maxDistance and returns the count. The results are unordered.
// When more colliders are hit than fit, the len(hits) nearest are kept.
// Trigger colliders are ignored.
func (w *World) RaycastAll(ray Ray, maxDistance float64, mask LayerMask, hits []RaycastHit) int {
	if len(hits) == 0 {
		return 0
	}
	n := 0
	farthest := 0
	for _, c := range w.colliders {
		if c.IsTrigger || !c.active() || !mask.Has(c.Layer) {
			continue
		}
		d, ok := c.Shape.Raycast(c.Node, ray, maxDistance)
		if !ok {
			continue
		}
		hit := RaycastHit{Collider: c, Distance: d, Point: ray.At(d)}
		if n < len(hits) {
			hits[n] = hit
			if d > hits[farthest].Distance {
				farthest = n
			}
			n++
			continue
		}
		if d >= hits[farthest].Distance {
			continue
		}
		hits[farthest] = hit
		for j := range hits {
			if hits[j].Distance > hits[farthest].Distance {
				farthest = j
			}
		}
	}
	return n
}

// Raycast returns the closest hit, if any.
func (w *World) Raycast(ray Ray, maxDistance float64, mask LayerMask) (RaycastHit, bool) {
	buf := make([]RaycastHit, w.cfg.Interaction.RayMaxHits)
	n := w.RaycastAll(ray, maxDistance, mask, buf)
	best := -1
	for i := 0; i < n; i++ {
		if best < 0 || buf[i].Distance < buf[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return RaycastHit{}, false
	}
	return buf[best], true
}

// detectOverlaps diffs every trigger's overlap set against the previous step
// and dispatches exits before enters.
func (w *World) detectOverlaps() {
	for _, ts := range w.triggers {
		trig := ts.trigger
		cur := w.overlapBuf[:0]
		if trig.active() {
			for _, c := range w.colliders {
				if c == trig || c.IsTrigger || !trig.Mask.Has(c.Layer) {
					continue
				}
				if c.Node != nil && trig.Node != nil && c.Node.IsAncestorOf(trig.Node) {
					continue
				}
				if Overlaps(trig, c) {
					cur = append(cur, c)
				}
			}
		}

		prev := ts.contacts
		ts.contacts = append(make([]*Collider, 0, len(cur)), cur...)
		w.overlapBuf = cur

		if trig.Listener == nil {
			continue
		}
		for _, c := range prev {
			if !containsItem(ts.contacts, c) {
				trig.Listener.OnTriggerExit(c)
			}
		}
		for _, c := range ts.contacts {
			if !containsItem(prev, c) {
				trig.Listener.OnTriggerEnter(c)
			}
		}
	}
}

// emit forwards an interaction event to the sink.
func (w *World) emit(ev InteractionEvent) {
	if w == nil || w.sink == nil {
		return
	}
	w.sink.EmitEvent(ev)
}

func removeItem[T comparable](s []T, v T) []T {
	for i := range s {
		if s[i] == v {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func containsItem[T comparable](s []T, v T) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
