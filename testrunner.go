package inkview

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Device string  `json:"device,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Delta  int     `json:"delta,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

const testScriptSchemaURL = "testscript.schema.json"

// testScriptSchema is the JSON schema every script is validated against.
const testScriptSchema = `{
  "type": "object",
  "required": ["steps"],
  "properties": {
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["action"],
        "properties": {
          "action": {"enum": ["press", "move", "release", "tap", "drag", "wheel", "wait", "screenshot", "reset"]},
          "device": {"enum": ["", "mouse", "pen", "touch"]},
          "label":  {"type": "string"},
          "frames": {"type": "integer", "minimum": 0},
          "delta":  {"type": "integer"},
          "ctrl":   {"type": "boolean"},
          "shift":  {"type": "boolean"}
        }
      }
    }
  }
}`

var compileTestScriptSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(testScriptSchemaURL, strings.NewReader(testScriptSchema)); err != nil {
		return nil, err
	}
	return c.Compile(testScriptSchemaURL)
})

// TestRunner sequences injected input events and screenshots across frames
// for automated visual testing. Attach to a Controller via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var doc any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	schema, err := compileTestScriptSchema()
	if err != nil {
		return nil, fmt.Errorf("compile test script schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid test script: %w", err)
	}

	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner. Its step method is called from
// Controller.Update before input is processed each frame.
func (c *Controller) SetTestRunner(runner *TestRunner) {
	c.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

func parseDevice(s string) (DeviceClass, error) {
	switch s {
	case "", "mouse":
		return DeviceMouse, nil
	case "pen":
		return DevicePen, nil
	case "touch":
		return DeviceTouch, nil
	default:
		return DeviceMouse, fmt.Errorf("unknown device %q", s)
	}
}

// step advances the test runner by one frame. Called from Controller.Update.
func (r *TestRunner) step(c *Controller) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(c.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	dev, _ := parseDevice(st.Device)

	switch st.Action {
	case "screenshot":
		c.Screenshot(st.Label)
	case "press":
		c.InjectPress(st.X, st.Y, dev)
	case "move":
		c.InjectMove(st.X, st.Y, dev)
	case "release":
		c.InjectRelease(st.X, st.Y, dev)
	case "tap":
		c.InjectTap(st.X, st.Y, dev)
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames, dev)
	case "wheel":
		var mods KeyModifiers
		if st.Ctrl {
			mods |= ModCtrl
		}
		if st.Shift {
			mods |= ModShift
		}
		c.InjectWheel(st.Delta, mods)
	case "reset":
		report("scripted reset", c.ResetView(true))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(c.injectQueue) == 0 {
		r.done = true
	}
}
