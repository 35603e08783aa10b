package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RaycastInteractor acquires the nearest interactable hit by a ray cast
// every frame from the hand along its local Direction.
type RaycastInteractor struct {
	*Interactor

	// Direction is the ray direction in the hand node's local space.
	Direction   mgl64.Vec3
	MaxDistance float64
	Mask        LayerMask

	hits   []RaycastHit
	hit    RaycastHit
	hasHit bool
}

// NewRaycastInteractor creates a ray interactor pointing down -Z that hits
// colliders on layers in mask.
func NewRaycastInteractor(hand Hand, src PoseSource, node *Node, mask LayerMask) *RaycastInteractor {
	cfg := DefaultConfig().Interaction
	return &RaycastInteractor{
		Interactor:  NewInteractor(hand, src, node),
		Direction:   mgl64.Vec3{0, 0, -1},
		MaxDistance: cfg.RayMaxDistance,
		Mask:        mask,
		hits:        make([]RaycastHit, cfg.RayMaxHits),
	}
}

func (r *RaycastInteractor) configure(cfg Config) {
	r.MaxDistance = cfg.Interaction.RayMaxDistance
	r.hits = make([]RaycastHit, cfg.Interaction.RayMaxHits)
}

// Ray returns the world-space ray.
func (r *RaycastInteractor) Ray() Ray {
	return Ray{
		Origin:    r.Node.WorldPosition(),
		Direction: r.Node.TransformDirection(r.Direction),
	}
}

// Hit returns the last frame's nearest hit on an eligible interactable.
func (r *RaycastInteractor) Hit() (RaycastHit, bool) {
	return r.hit, r.hasHit
}

// Line returns the segment to draw for the visual ray: up to the hit point,
// or full length when nothing is hit.
func (r *RaycastInteractor) Line() (start, end mgl64.Vec3) {
	ray := r.Ray()
	if r.hasHit {
		return ray.Origin, r.hit.Point
	}
	return ray.Origin, ray.At(r.MaxDistance)
}

// Update casts the ray and switches hover to the nearest hit interactable.
// Nothing changes while the current target is held.
func (r *RaycastInteractor) Update(dt float64) {
	r.Interactor.Update(dt)
	if r.world == nil {
		return
	}
	n := r.world.RaycastAll(r.Ray(), r.MaxDistance, r.Mask, r.hits)

	var best *Interactable
	bestDist := math.Inf(1)
	r.hasHit = false
	for _, h := range r.hits[:n] {
		ib := h.Collider.Owner
		if ib == nil || !ib.IsValidHand(r.Hand) || ib.IsSelected() {
			continue
		}
		if h.Distance < bestDist {
			best, bestDist = ib, h.Distance
			r.hit, r.hasHit = h, true
		}
	}

	if r.interacting {
		return
	}
	if best == r.current {
		r.rehover()
		return
	}
	r.switchTo(best)
}
