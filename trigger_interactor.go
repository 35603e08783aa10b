package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TriggerInteractor acquires targets through a trigger volume on the hand.
// Among touching interactables it hovers the one whose interaction point is
// closest to the hand, re-checking at most once per CheckInterval so that
// two candidates at similar distances do not flicker.
type TriggerInteractor struct {
	*Interactor

	Trigger *Collider
	// CheckInterval throttles switching between candidates, in seconds.
	CheckInterval float64

	contacts      []*Collider
	hoverCollider *Collider
	now           float64
	lastCheck     float64
}

// NewTriggerInteractor creates a trigger-based interactor whose volume
// reports colliders on layers in mask.
func NewTriggerInteractor(hand Hand, src PoseSource, node *Node, shape Shape, mask LayerMask) *TriggerInteractor {
	t := &TriggerInteractor{
		Interactor:    NewInteractor(hand, src, node),
		CheckInterval: DefaultConfig().Interaction.TriggerCheckInterval,
		lastCheck:     math.Inf(-1),
	}
	t.Trigger = NewTrigger(node, shape, mask, t)
	t.ranges = t
	return t
}

func (t *TriggerInteractor) configure(cfg Config) {
	t.CheckInterval = cfg.Interaction.TriggerCheckInterval
}

// Colliders returns the trigger volume so World.Add registers it.
func (t *TriggerInteractor) Colliders() []*Collider {
	return []*Collider{t.Trigger}
}

// Contacts returns the colliders currently touching the volume. The returned
// slice MUST NOT be mutated.
func (t *TriggerInteractor) Contacts() []*Collider {
	return t.contacts
}

// OnTriggerEnter records the contact and evaluates it as a candidate.
func (t *TriggerInteractor) OnTriggerEnter(c *Collider) {
	if !containsItem(t.contacts, c) {
		t.contacts = append(t.contacts, c)
	}
	t.evaluate(c)
}

// OnTriggerExit forgets the contact. Leaving the collider that started the
// current hover clears it unless the target is held or still touched through
// another of its colliders.
func (t *TriggerInteractor) OnTriggerExit(c *Collider) {
	t.contacts = removeItem(t.contacts, c)
	if c != t.hoverCollider {
		return
	}
	t.hoverCollider = nil
	if t.interacting || t.current == nil || t.current != c.Owner {
		return
	}
	for _, other := range t.contacts {
		if other.Owner == t.current {
			t.hoverCollider = other
			return
		}
	}
	t.switchTo(nil)
}

// Update tracks the hand and re-evaluates the closest touching candidate.
func (t *TriggerInteractor) Update(dt float64) {
	t.Interactor.Update(dt)
	t.now += dt
	if t.interacting {
		return
	}
	pos := t.WorldPosition()
	var best *Collider
	bestDist := math.Inf(1)
	for _, c := range t.contacts {
		if !t.eligible(c.Owner) {
			continue
		}
		if d := distSq(pos, c.Owner.interactionPoint(pos)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != nil {
		t.evaluate(best)
	}
}

// evaluate considers c's owner as the hover target.
func (t *TriggerInteractor) evaluate(c *Collider) {
	ib := c.Owner
	if t.interacting || !t.eligible(ib) {
		return
	}
	if t.current == nil {
		t.lastCheck = t.now
		t.hoverCollider = c
		t.switchTo(ib)
		return
	}
	if ib == t.current {
		t.rehover()
		return
	}
	if t.now-t.lastCheck < t.CheckInterval {
		return
	}
	t.lastCheck = t.now
	pos := t.WorldPosition()
	if distSq(pos, ib.interactionPoint(pos)) < distSq(pos, t.current.interactionPoint(pos)) {
		t.hoverCollider = c
		t.switchTo(ib)
	}
}

func (t *TriggerInteractor) eligible(ib *Interactable) bool {
	return ib != nil && ib.IsValidHand(t.Hand) && !ib.IsSelected()
}

// InRange reports whether the volume geometrically overlaps any collider of
// ib. Layers are ignored: a just-released object may still be on the hand
// layer.
func (t *TriggerInteractor) InRange(ib *Interactable) bool {
	for _, c := range ib.colliders {
		if Overlaps(t.Trigger, c) {
			return true
		}
	}
	return false
}

// interactionPoint returns the point used to rank ib against other
// candidates seen from pos: the InteractionPoint node, else the closest
// point on its nearest collider, else its node origin.
func (ib *Interactable) interactionPoint(pos mgl64.Vec3) mgl64.Vec3 {
	if ib.InteractionPoint != nil {
		return ib.InteractionPoint.WorldPosition()
	}
	best := ib.Node.WorldPosition()
	bestDist := math.Inf(1)
	for _, c := range ib.colliders {
		if !c.active() {
			continue
		}
		p := c.ClosestPoint(pos)
		if d := distSq(pos, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func distSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
