package stitch

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// FilterHook edits the rendered entry list before it is finalized. Each
// entry is either one frame's text or a via marker. The hook must
// mutate the slice in place through the pointer (delete by backward
// iteration and reslicing); replacing it with unrelated content is
// outside the contract.
type FilterHook func(entries *[]string)

// Config holds tracer configuration. The zero value is enabled, normal
// shape, runtime-backed capture, default classification.
type Config struct {
	// Disabled turns wrapping into a passthrough and error
	// construction into plain errors, at the cost of a single check.
	Disabled bool

	// Shape selects the rendered trace form.
	Shape Shape

	// Filter, when set, is applied to the rendered entries of the text
	// shapes.
	Filter FilterHook

	// Classify labels asynchronous boundaries when WithVia is not
	// given. Nil means ClassifyFrame.
	Classify Classifier

	// Capture is the host stack-introspection boundary. Nil means
	// CaptureFrames.
	Capture Capturer

	// MaxChainDepth truncates continuation walks longer than this many
	// nodes with a "trace truncated" marker. Zero means unlimited.
	// A wrap executed inside its own callback grows the chain by one
	// node per invocation and retains the whole ancestry; this bound
	// keeps such traces finite.
	MaxChainDepth int

	// Color enables ANSI-colored markers in the tree shape.
	Color bool
}

// fileConfig is the TOML form of Config, as found in stitch.toml.
type fileConfig struct {
	Disabled      bool   `toml:"disabled"`
	Shape         string `toml:"shape"`
	MaxChainDepth int    `toml:"max_chain_depth"`
	Color         bool   `toml:"color"`
}

// LoadConfig reads tracer configuration from a TOML file. Hooks and
// capturers are code, not data, and stay at their defaults.
func LoadConfig(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg := Config{
		Disabled:      fc.Disabled,
		MaxChainDepth: fc.MaxChainDepth,
		Color:         fc.Color,
	}
	if meta.IsDefined("shape") {
		shape, err := ParseShape(fc.Shape)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Shape = shape
	}
	return cfg, nil
}
