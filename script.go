package spritepaint

import (
	"encoding/json"
	"fmt"
)

// editStep is a single action in an edit script.
type editStep struct {
	Action string `json:"action"`
	Sheet  string `json:"sheet,omitempty"`
	Index  int    `json:"index,omitempty"`
	Color  string `json:"color,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// editScript is the top-level JSON structure for an edit script.
type editScript struct {
	Steps []editStep `json:"steps"`
}

// EditScript replays color choices one step per frame, without a UI.
// Sheets must be ready before a step that targets them runs; the script
// waits for them.
type EditScript struct {
	steps     []editStep
	cursor    int
	waitCount int
	done      bool
}

// LoadEditScript parses and validates a JSON edit script.
//
//	{"steps": [
//	  {"action": "choose", "sheet": "char_yellow.png", "index": 0, "color": "#ffcc00"},
//	  {"action": "wait", "frames": 2},
//	  {"action": "reset", "sheet": "char_yellow.png"}
//	]}
func LoadEditScript(jsonData []byte) (*EditScript, error) {
	var script editScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse edit script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "choose":
			if st.Sheet == "" {
				return nil, fmt.Errorf("parse edit script: step %d: choose needs a sheet", i)
			}
			if _, err := ParseHex(st.Color); err != nil {
				return nil, fmt.Errorf("parse edit script: step %d: %w", i, err)
			}
		case "reset":
			if st.Sheet == "" {
				return nil, fmt.Errorf("parse edit script: step %d: reset needs a sheet", i)
			}
		case "wait":
		default:
			return nil, fmt.Errorf("parse edit script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &EditScript{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *EditScript) Done() bool {
	return r.done
}

// Step advances the script by one frame against p. Errors from a step are
// returned; the step is consumed either way.
func (r *EditScript) Step(p *Painter) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	var err error
	switch st.Action {
	case "choose", "reset":
		s, ok := p.Lookup(st.Sheet)
		if !ok {
			r.cursor++
			err = fmt.Errorf("edit script: sheet %q not registered", st.Sheet)
			break
		}
		if v, _ := p.View(st.Sheet); v.ColorMod == nil {
			// Not set up yet, try again next frame.
			return nil
		}
		r.cursor++
		if st.Action == "reset" {
			err = p.ResetChoices(s)
			break
		}
		c, _ := ParseHex(st.Color)
		err = p.SetChoice(s, st.Index, c)
	case "wait":
		r.cursor++
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return err
}
