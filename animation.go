package reach

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenValue) and
// call Update(dt) each frame, or add it to a World. The group auto-applies
// values and marks the node dirty. If the target node is disposed, the group
// stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target
// fields, and marks the node dirty.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition animates node's local position to to.
func TweenPosition(node *Node, to mgl64.Vec3, duration float64, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(node.Position[i]), float32(to[i]), float32(duration), fn)
		g.fields[i] = &node.Position[i]
	}
	return g
}

// TweenScale animates node's local scale to to.
func TweenScale(node *Node, to mgl64.Vec3, duration float64, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(node.Scale[i]), float32(to[i]), float32(duration), fn)
		g.fields[i] = &node.Scale[i]
	}
	return g
}

// TweenValue animates an arbitrary field. node, if non-nil, is marked dirty
// on every update and stops the tween when disposed.
func TweenValue(node *Node, field *float64, to float64, duration float64, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(*field), float32(to), float32(duration), fn)
	g.fields[0] = field
	return g
}

// PoseBlend interpolates from a fixed pose towards a target that may move
// while the blend runs. Progress is eased by a gween tween from 0 to 1.
type PoseBlend struct {
	From      Pose
	Spherical bool
	// Pivot is the center the position arcs around when Spherical is set.
	Pivot mgl64.Vec3

	tween    *gween.Tween
	progress float64
	done     bool
}

// NewPoseBlend starts a blend from from lasting duration seconds. A
// non-positive duration completes on the first update.
func NewPoseBlend(from Pose, duration float64, fn ease.TweenFunc) *PoseBlend {
	if fn == nil {
		fn = ease.Linear
	}
	b := &PoseBlend{From: from}
	if duration <= 0 {
		b.progress, b.done = 1, true
		return b
	}
	b.tween = gween.New(0, 1, float32(duration), fn)
	return b
}

// Update advances the blend and returns the pose between From and to.
func (b *PoseBlend) Update(dt float64, to Pose) Pose {
	if !b.done {
		v, finished := b.tween.Update(float32(dt))
		b.progress = clamp01(float64(v))
		if finished {
			b.progress, b.done = 1, true
		}
	}
	return b.At(to)
}

// At returns the pose at the current progress.
func (b *PoseBlend) At(to Pose) Pose {
	t := b.progress
	if t >= 1 {
		return to
	}
	if b.Spherical {
		rel := slerpVec(b.From.Position.Sub(b.Pivot), to.Position.Sub(b.Pivot), t)
		return Pose{
			Position: b.Pivot.Add(rel),
			Rotation: mgl64.QuatSlerp(b.From.Rotation, to.Rotation, t),
		}
	}
	return Pose{
		Position: lerpVec(b.From.Position, to.Position, t),
		Rotation: mgl64.QuatNlerp(b.From.Rotation, to.Rotation, t),
	}
}

// Progress returns the eased progress in [0, 1].
func (b *PoseBlend) Progress() float64 {
	return b.progress
}

// Done reports whether the blend reached its target.
func (b *PoseBlend) Done() bool {
	return b.done
}
