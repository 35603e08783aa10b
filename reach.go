package reach

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a world- or parent-space position and orientation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// PoseIdentity is the pose at the origin with no rotation.
var PoseIdentity = Pose{Rotation: mgl64.QuatIdent()}

// NewPose returns a pose at p with rotation r. A zero quaternion is replaced
// with the identity rotation.
func NewPose(p mgl64.Vec3, r mgl64.Quat) Pose {
	if r.W == 0 && r.V == (mgl64.Vec3{}) {
		r = mgl64.QuatIdent()
	}
	return Pose{Position: p, Rotation: r}
}

// Ray is a half-line used for raycasts. Direction need not be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance d along the normalized ray.
func (r Ray) At(d float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Normalize().Mul(d))
}

// Hand identifies which tracked hand an interactor or controller belongs to.
type Hand uint8

const (
	HandLeft  Hand = iota // left hand
	HandRight             // right hand
)

// handCount is the number of hand slots; used to size per-hand arrays.
const handCount = 2

// Mask returns the HandMask bit for h.
func (h Hand) Mask() HandMask {
	return 1 << h
}

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return fmt.Sprintf("hand(%d)", uint8(h))
	}
}

// HandMask is a bitmask of hands eligible to interact with an interactable.
// Values can be combined with bitwise OR (e.g. HandMaskLeft | HandMaskRight).
type HandMask uint8

const (
	HandMaskLeft  HandMask = 1 << HandLeft  // left hand only
	HandMaskRight HandMask = 1 << HandRight // right hand only
	HandMaskBoth           = HandMaskLeft | HandMaskRight
)

// Button identifies a logical controller button.
type Button uint8

const (
	ButtonGrip    Button = iota // grip / squeeze
	ButtonTrigger               // index trigger
)

const buttonCount = 2

func (b Button) String() string {
	switch b {
	case ButtonGrip:
		return "grip"
	case ButtonTrigger:
		return "trigger"
	default:
		return fmt.Sprintf("button(%d)", uint8(b))
	}
}

// ParseButton parses "grip" or "trigger" (case-insensitive).
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grip":
		return ButtonGrip, nil
	case "trigger":
		return ButtonTrigger, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButton, s)
}

// ButtonEdge is a single press or release transition on a button stream.
type ButtonEdge uint8

const (
	EdgeDown ButtonEdge = iota // button pressed
	EdgeUp                     // button released
)

// ButtonRole selects which mapping ResolveButton applies.
type ButtonRole uint8

const (
	RoleSelection  ButtonRole = iota // button that selects/holds the interactable
	RoleActivation                   // button that uses the selected interactable
)

// buttonTable maps (selection button, role) to the physical button stream.
// Selection uses the same button; activation uses the other one, so an object
// held with grip is fired with trigger and vice versa.
var buttonTable = [buttonCount][2]Button{
	ButtonGrip:    {RoleSelection: ButtonGrip, RoleActivation: ButtonTrigger},
	ButtonTrigger: {RoleSelection: ButtonTrigger, RoleActivation: ButtonGrip},
}

// ResolveButton returns the button whose edge stream drives role for an
// interactable selected with selection.
func ResolveButton(selection Button, role ButtonRole) Button {
	return buttonTable[selection][role]
}

// Finger indexes per-finger curl values.
type Finger uint8

const (
	FingerThumb Finger = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
)

// FingerCount is the number of tracked fingers per hand.
const FingerCount = 5

// ParseFinger parses a finger name such as "index".
func ParseFinger(s string) (Finger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "thumb":
		return FingerThumb, nil
	case "index":
		return FingerIndex, nil
	case "middle":
		return FingerMiddle, nil
	case "ring":
		return FingerRing, nil
	case "pinky":
		return FingerPinky, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFinger, s)
}

// InteractionState is the lifecycle state of an Interactable.
type InteractionState uint8

const (
	StateNone     InteractionState = iota // initial and resting state
	StateHovering                         // an interactor is in range
	StateSelected                         // an interactor holds the interactable
)

func (s InteractionState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateHovering:
		return "hovering"
	case StateSelected:
		return "selected"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventHoverStart EventType = iota // interactor started hovering
	EventHoverEnd                    // interactor stopped hovering
	EventSelect                      // interactable was selected
	EventDeselect                    // interactable was released
	EventUseStart                    // activation button pressed while selected
	EventUseEnd                      // activation button released
)

func (e EventType) String() string {
	switch e {
	case EventHoverStart:
		return "hover-start"
	case EventHoverEnd:
		return "hover-end"
	case EventSelect:
		return "select"
	case EventDeselect:
		return "deselect"
	case EventUseStart:
		return "use-start"
	case EventUseEnd:
		return "use-end"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// LayerMask is a bitmask of physics layers (0..31).
type LayerMask uint32

// LayerMaskAll matches every layer.
const LayerMaskAll LayerMask = math.MaxUint32

// MaskOf builds a LayerMask containing the given layers.
func MaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l >= 0 && l < 32 {
			m |= 1 << uint(l)
		}
	}
	return m
}

// Has reports whether layer is in the mask.
func (m LayerMask) Has(layer int) bool {
	if layer < 0 || layer >= 32 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// --- vector helpers ---

// mulVec multiplies two vectors component-wise.
func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// invVec returns the component-wise reciprocal. Zero components stay zero.
func invVec(a mgl64.Vec3) mgl64.Vec3 {
	var r mgl64.Vec3
	for i := range a {
		if a[i] != 0 {
			r[i] = 1 / a[i]
		}
	}
	return r
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// slerpVec interpolates direction spherically and length linearly.
func slerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	la, lb := a.Len(), b.Len()
	if la < 1e-9 || lb < 1e-9 {
		return lerpVec(a, b, t)
	}
	na, nb := a.Mul(1/la), b.Mul(1/lb)
	dot := mgl64.Clamp(na.Dot(nb), -1, 1)
	theta := math.Acos(dot)
	if theta < 1e-6 {
		return lerpVec(a, b, t)
	}
	sin := math.Sin(theta)
	dir := na.Mul(math.Sin((1-t)*theta) / sin).Add(nb.Mul(math.Sin(t*theta) / sin))
	return dir.Mul(la + (lb-la)*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// clampLen scales v down so its length does not exceed max.
func clampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l > max && l > 0 {
		return v.Mul(max / l)
	}
	return v
}

// quatToAngleAxis decomposes q into a rotation angle in [0, pi] (radians) and
// a unit axis. The identity returns angle 0 and the X axis.
func quatToAngleAxis(q mgl64.Quat) (float64, mgl64.Vec3) {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	w := mgl64.Clamp(q.W, -1, 1)
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return 0, mgl64.Vec3{1, 0, 0}
	}
	return angle, q.V.Mul(1 / s)
}

// signedAngle returns the angle from a to b around axis, in radians.
func signedAngle(a, b, axis mgl64.Vec3) float64 {
	return math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
}

// projectOnPlane removes the component of v along the unit normal n.
func projectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// wrapAngle maps an angle into (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
