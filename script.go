package reach

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a controller script.
type scriptStep struct {
	Action string     `yaml:"action"`
	Button string     `yaml:"button,omitempty"`
	Finger string     `yaml:"finger,omitempty"`
	Value  float64    `yaml:"value,omitempty"`
	To     [3]float64 `yaml:"to,omitempty"`
	Axis   [3]float64 `yaml:"axis,omitempty"`
	Angle  float64    `yaml:"angle,omitempty"`
	Frames int        `yaml:"frames,omitempty"`
}

type controllerScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptedController is a Controller replaying a script one step per frame.
// Add it to a World (it is a Ticker) or call Update yourself.
//
// Actions: move (to, frames), rotate (axis, angle in degrees), press and
// release (button), curl (finger, value), wait (frames).
type ScriptedController struct {
	*Controller

	steps     []scriptStep
	cursor    int
	waitCount int
	moves     []mgl64.Vec3
	done      bool
}

// LoadScript parses a YAML (or JSON) script. Unknown actions, buttons and
// fingers are rejected here rather than at replay time.
func LoadScript(data []byte) (*ScriptedController, error) {
	var script controllerScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w: no steps", ErrInvalidScript)
	}
	for n, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", n, err)
		}
	}
	return &ScriptedController{Controller: NewController(), steps: script.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "move", "rotate", "wait":
		return nil
	case "press", "release":
		_, err := ParseButton(st.Button)
		return err
	case "curl":
		_, err := ParseFinger(st.Finger)
		return err
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidScript, st.Action)
}

// Done reports whether every step has been executed.
func (s *ScriptedController) Done() bool {
	return s.done
}

// Update advances the script by one frame.
func (s *ScriptedController) Update(dt float64) {
	if s.done {
		return
	}
	// Drain an interpolated move before advancing.
	if len(s.moves) > 0 {
		s.SetPosition(s.moves[0])
		s.moves = s.moves[1:]
		s.checkDone()
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		s.checkDone()
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "move":
		to := mgl64.Vec3(st.To)
		if st.Frames < 2 {
			s.SetPosition(to)
			break
		}
		from := s.Pose().Position
		for i := 1; i <= st.Frames; i++ {
			s.moves = append(s.moves, lerpVec(from, to, float64(i)/float64(st.Frames)))
		}
		s.SetPosition(s.moves[0])
		s.moves = s.moves[1:]
	case "rotate":
		axis := mgl64.Vec3(st.Axis)
		if axis.Len() == 0 {
			axis = mgl64.Vec3{0, 1, 0}
		}
		s.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(st.Angle), axis.Normalize()))
	case "press":
		b, _ := ParseButton(st.Button)
		s.Press(b)
	case "release":
		b, _ := ParseButton(st.Button)
		s.Release(b)
	case "curl":
		f, _ := ParseFinger(st.Finger)
		s.SetCurl(f, st.Value)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	s.checkDone()
}

func (s *ScriptedController) checkDone() {
	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(s.moves) == 0 {
		s.done = true
	}
}
