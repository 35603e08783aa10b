package reach

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override read by LoadConfig.
const EnvPrefix = "REACH_"

// Config carries everything the runtime reads from the outside world. It is
// consumed once at construction and never mutated by the core.
type Config struct {
	Layers      LayerConfig       `yaml:"layers" envPrefix:"LAYER_"`
	Hand        HandConfig        `yaml:"hand" envPrefix:"HAND_"`
	Follower    FollowerConfig    `yaml:"follower" envPrefix:"FOLLOWER_"`
	Physics     PhysicsConfig     `yaml:"physics" envPrefix:"PHYSICS_"`
	Interaction InteractionConfig `yaml:"interaction" envPrefix:"INTERACTION_"`
	Prefabs     PrefabConfig      `yaml:"prefabs" envPrefix:"PREFAB_"`
}

// LayerConfig assigns physics layer indices.
type LayerConfig struct {
	LeftHand     int `yaml:"left_hand" env:"LEFT_HAND"`
	RightHand    int `yaml:"right_hand" env:"RIGHT_HAND"`
	Interactable int `yaml:"interactable" env:"INTERACTABLE"`
	Player       int `yaml:"player" env:"PLAYER"`
}

// HandLayer returns the layer used by hand h and by objects it holds.
func (l LayerConfig) HandLayer(h Hand) int {
	if h == HandLeft {
		return l.LeftHand
	}
	return l.RightHand
}

// HandConfig holds physical constants for the simulated hand bodies.
type HandConfig struct {
	Mass        float64 `yaml:"mass" env:"MASS"`
	Drag        float64 `yaml:"drag" env:"DRAG"`
	AngularDrag float64 `yaml:"angular_drag" env:"ANGULAR_DRAG"`
}

// PhysicsConfig controls the fixed-step cadence.
type PhysicsConfig struct {
	FixedStep        float64 `yaml:"fixed_step" env:"FIXED_STEP"`
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame" env:"MAX_STEPS_PER_FRAME"`
	Gravity          float64 `yaml:"gravity" env:"GRAVITY"`
}

// InteractionConfig tunes acquisition and manipulation.
type InteractionConfig struct {
	TriggerCheckInterval float64 `yaml:"trigger_check_interval" env:"TRIGGER_CHECK_INTERVAL"`
	RayMaxDistance       float64 `yaml:"ray_max_distance" env:"RAY_MAX_DISTANCE"`
	RayMaxHits           int     `yaml:"ray_max_hits" env:"RAY_MAX_HITS"`
	ReleaseDelay         float64 `yaml:"release_delay" env:"RELEASE_DELAY"`
	TransitionDuration   float64 `yaml:"transition_duration" env:"TRANSITION_DURATION"`
	SnapDistance         float64 `yaml:"snap_distance" env:"SNAP_DISTANCE"`
}

// PrefabConfig names the prefabs instantiated for synthetic hands.
type PrefabConfig struct {
	LeftHand  string `yaml:"left_hand" env:"LEFT_HAND"`
	RightHand string `yaml:"right_hand" env:"RIGHT_HAND"`
}

// HandPrefab returns the prefab name for hand h.
func (p PrefabConfig) HandPrefab(h Hand) string {
	if h == HandLeft {
		return p.LeftHand
	}
	return p.RightHand
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Layers: LayerConfig{
			LeftHand:     8,
			RightHand:    9,
			Interactable: 10,
			Player:       11,
		},
		Hand: HandConfig{
			Mass:        1,
			Drag:        0,
			AngularDrag: 0.05,
		},
		Follower: DefaultFollowerConfig(),
		Physics: PhysicsConfig{
			FixedStep:        1.0 / 50,
			MaxStepsPerFrame: 5,
			Gravity:          -9.81,
		},
		Interaction: InteractionConfig{
			TriggerCheckInterval: 0.08,
			RayMaxDistance:       10,
			RayMaxHits:           16,
			ReleaseDelay:         1.0 / 50,
			TransitionDuration:   0.1,
			SnapDistance:         0.3,
		},
		Prefabs: PrefabConfig{
			LeftHand:  "hand_left",
			RightHand: "hand_right",
		},
	}
}

// LoadConfig decodes YAML over DefaultConfig, applies REACH_* environment
// overrides, and validates the result. Empty data yields the defaults plus
// overrides.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting, joined into one error.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, field))
		}
	}
	for name, l := range map[string]int{
		"layers.left_hand":    c.Layers.LeftHand,
		"layers.right_hand":   c.Layers.RightHand,
		"layers.interactable": c.Layers.Interactable,
		"layers.player":       c.Layers.Player,
	} {
		check(l >= 0 && l < 32, name)
	}
	check(c.Layers.LeftHand != c.Layers.Interactable && c.Layers.RightHand != c.Layers.Interactable,
		"layers.interactable must differ from hand layers")
	check(c.Hand.Mass > 0, "hand.mass")
	check(c.Physics.FixedStep > 0, "physics.fixed_step")
	check(c.Physics.MaxStepsPerFrame > 0, "physics.max_steps_per_frame")
	check(c.Interaction.TriggerCheckInterval >= 0, "interaction.trigger_check_interval")
	check(c.Interaction.RayMaxDistance > 0, "interaction.ray_max_distance")
	check(c.Interaction.RayMaxHits > 0, "interaction.ray_max_hits")
	check(c.Interaction.ReleaseDelay >= 0, "interaction.release_delay")
	if err := c.Follower.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
