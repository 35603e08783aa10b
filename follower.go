package reach

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FollowerConfig tunes a HandFollower. Distances are in meters, velocities
// in meters per second, AngleDeadzone in degrees.
type FollowerConfig struct {
	// PositionSmoothing and RotationSmoothing are the per-step fraction the
	// smoothed target moves towards the true target.
	PositionSmoothing float64 `yaml:"position_smoothing" env:"POSITION_SMOOTHING"`
	RotationSmoothing float64 `yaml:"rotation_smoothing" env:"ROTATION_SMOOTHING"`

	MaxVelocity float64 `yaml:"max_velocity" env:"MAX_VELOCITY"`
	// MaxDistance and MinDistance bound the error outside which the body
	// teleports instead of chasing.
	MaxDistance float64 `yaml:"max_distance" env:"MAX_DISTANCE"`
	MinDistance float64 `yaml:"min_distance" env:"MIN_DISTANCE"`

	DeadzoneEnabled  bool    `yaml:"deadzone_enabled" env:"DEADZONE_ENABLED"`
	PositionDeadzone float64 `yaml:"position_deadzone" env:"POSITION_DEADZONE"`
	AngleDeadzone    float64 `yaml:"angle_deadzone" env:"ANGLE_DEADZONE"`

	Damping        float64 `yaml:"damping" env:"DAMPING"`
	AngularDamping float64 `yaml:"angular_damping" env:"ANGULAR_DAMPING"`
}

// DefaultFollowerConfig returns the built-in follower tuning.
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		PositionSmoothing: 0.8,
		RotationSmoothing: 0.8,
		MaxVelocity:       8,
		MaxDistance:       1,
		MinDistance:       0.0005,
		DeadzoneEnabled:   true,
		PositionDeadzone:  0.002,
		AngleDeadzone:     0.5,
		Damping:           0.3,
		AngularDamping:    0.3,
	}
}

// Validate reports out-of-range follower settings.
func (c FollowerConfig) Validate() error {
	var errs []error
	check := func(ok bool, field string) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: follower.%s", ErrInvalidConfig, field))
		}
	}
	check(c.PositionSmoothing > 0 && c.PositionSmoothing <= 1, "position_smoothing")
	check(c.RotationSmoothing > 0 && c.RotationSmoothing <= 1, "rotation_smoothing")
	check(c.MaxVelocity > 0, "max_velocity")
	check(c.MaxDistance > 0, "max_distance")
	check(c.MinDistance >= 0 && c.MinDistance < c.MaxDistance, "min_distance")
	check(c.PositionDeadzone >= 0, "position_deadzone")
	check(c.AngleDeadzone >= 0, "angle_deadzone")
	check(c.Damping >= 0 && c.Damping <= 1, "damping")
	check(c.AngularDamping >= 0 && c.AngularDamping <= 1, "angular_damping")
	return errors.Join(errs...)
}

// HandFollower drives a dynamic Body towards a PoseSource by setting its
// velocities once per fixed step. It runs independently of the interaction
// state machine; add it to a World alongside the body.
type HandFollower struct {
	Body   *Body
	Target PoseSource
	Config FollowerConfig

	smoothed    Pose
	initialized bool
	teleports   int
	warned      bool
}

// NewHandFollower creates a follower moving body towards target.
func NewHandFollower(body *Body, target PoseSource, cfg FollowerConfig) *HandFollower {
	return &HandFollower{Body: body, Target: target, Config: cfg}
}

// Bodies returns the driven body so World.Add registers it.
func (f *HandFollower) Bodies() []*Body {
	if f.Body == nil {
		return nil
	}
	return []*Body{f.Body}
}

// Teleports returns how many times the body was snapped to the target.
func (f *HandFollower) Teleports() int {
	return f.teleports
}

// Smoothed returns the filtered target pose.
func (f *HandFollower) Smoothed() Pose {
	return f.smoothed
}

// FixedUpdate runs one control step.
func (f *HandFollower) FixedUpdate(dt float64) {
	if f.Target == nil || f.Body == nil || f.Body.Node == nil {
		if !f.warned {
			f.warned = true
			err := ErrNoTarget
			if f.Target != nil {
				err = ErrNoBody
			}
			logSkip("hand follow", err)
		}
		return
	}
	cfg := f.Config
	target := f.Target.Pose()
	if !f.initialized {
		f.smoothed = target
		f.initialized = true
	}

	// 1. Smooth.
	f.smoothed.Position = lerpVec(f.smoothed.Position, target.Position, cfg.PositionSmoothing)
	f.smoothed.Rotation = mgl64.QuatNlerp(f.smoothed.Rotation, target.Rotation, cfg.RotationSmoothing)

	// 2. Teleport when too far to chase or close enough to stop.
	current := f.Body.Node.WorldPose()
	errVec := f.smoothed.Position.Sub(current.Position)
	dist := errVec.Len()
	raw := target.Position.Sub(current.Position).Len()
	if dist > cfg.MaxDistance || raw > cfg.MaxDistance || dist < cfg.MinDistance {
		f.Body.Teleport(target)
		f.smoothed = target
		f.teleports++
		return
	}

	// 3-4. Linear velocity.
	if cfg.DeadzoneEnabled && dist < cfg.PositionDeadzone {
		f.Body.Velocity = f.Body.Velocity.Mul(cfg.Damping)
	} else {
		var desired mgl64.Vec3
		if dist > 1e-12 {
			speed := lerp(0, cfg.MaxVelocity, math.Min(dist/cfg.MaxDistance, 1))
			desired = errVec.Mul(speed / dist)
		}
		v := lerpVec(f.Body.Velocity, desired, 1-cfg.Damping)
		f.Body.Velocity = clampLen(v, cfg.MaxVelocity)
	}

	// 5. Angular velocity, shortest path.
	rot := f.smoothed.Rotation
	if rot.Dot(current.Rotation) < 0 {
		rot = rot.Scale(-1)
	}
	angle, axis := quatToAngleAxis(rot.Mul(current.Rotation.Inverse()))
	if cfg.DeadzoneEnabled && angle < mgl64.DegToRad(cfg.AngleDeadzone) {
		f.Body.AngularVelocity = f.Body.AngularVelocity.Mul(cfg.AngularDamping)
		return
	}
	maxAngular := 0.5 * cfg.MaxVelocity
	desired := axis.Mul(maxAngular * math.Min(angle/(math.Pi/4), 1))
	w := lerpVec(f.Body.AngularVelocity, desired, 1-cfg.AngularDamping)
	f.Body.AngularVelocity = clampLen(w, maxAngular)
}
