// Package config defines the single Options value of the pipeline,
// passed by value to the transformer and projected for the emitter
// (spec.md §5: "no shared mutable state between calls"). pkg/api.Transform builds one from its
// TransformOptions input; cmd/kyc additionally loads one from an on-disk
// kyc.config.yaml before overlaying CLI flags on top.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type ModuleFormat uint8

const (
	FormatESM ModuleFormat = iota
)

type IndentStyle uint8

const (
	IndentTwoSpace IndentStyle = iota
	IndentFourSpace
	IndentTab
)

func (s IndentStyle) String() string {
	switch s {
	case IndentFourSpace:
		return "    "
	case IndentTab:
		return "\t"
	default:
		return "  "
	}
}

// RuntimePaths substitutes the module specifiers the emitter writes into
// the import preamble (spec.md §6, `emitter.runtimePaths.*`).
type RuntimePaths struct {
	Core        string `yaml:"core"`
	JSXRuntime  string `yaml:"jsxRuntime"`
	Registry    string `yaml:"registry"`
	// Hooks is carried through from a config file or the public API, but
	// no transform pass reads it: a useState call whose own import names a
	// distinct "*/hooks" source keeps that source, and otherwise Core is
	// used.
	Hooks string `yaml:"hooks"`
}

func DefaultRuntimePaths() RuntimePaths {
	return RuntimePaths{
		Core:       "kythera/runtime",
		JSXRuntime: "kythera/jsx-runtime",
		Registry:   "kythera/runtime",
		Hooks:      "kythera/hooks",
	}
}

type EmitterOptions struct {
	Format       ModuleFormat `yaml:"-"`
	Indent       IndentStyle  `yaml:"indent"`
	RuntimePaths RuntimePaths `yaml:"runtimePaths"`
	ASCIISafe    bool         `yaml:"asciiSafe"`
}

type ValidatorOptions struct {
	Enabled bool `yaml:"enabled"`
}

// Options is passed by value (never mutated after construction) to
// transform.Run, and pkg/api projects its emitter fields into
// printer.Options; the lexer, parser and analyzer take no Options.
type Options struct {
	FilePath string `yaml:"-"`
	Debug    bool   `yaml:"debug"`
	Strict   bool   `yaml:"strict"`

	// DialectExtension is the source file suffix rewritten to ".js" in
	// emitted import specifiers (spec.md §3's "source paths ending in the
	// dialect extension are rewritten").
	DialectExtension string `yaml:"dialectExtension"`

	Emitter   EmitterOptions   `yaml:"emitter"`
	Validator ValidatorOptions `yaml:"validator"`

	// MaxPassIterations bounds every transform tree-walk recursion
	// (spec.md §5's bounded-iteration guard); 0 means "use the default".
	MaxPassIterations int `yaml:"maxPassIterations"`
}

const DefaultMaxPassIterations = 50000

// Default returns the Options a bare `transform(source)` call uses when
// the caller supplies no overrides.
func Default() Options {
	return Options{
		DialectExtension: ".ky",
		Emitter: EmitterOptions{
			Format:       FormatESM,
			Indent:       IndentTwoSpace,
			RuntimePaths: DefaultRuntimePaths(),
		},
		MaxPassIterations: DefaultMaxPassIterations,
	}
}

func (o Options) MaxIterations() int {
	if o.MaxPassIterations <= 0 {
		return DefaultMaxPassIterations
	}
	return o.MaxPassIterations
}

// fileShape mirrors the subset of Options a kyc.config.yaml may set; the
// core library never reads this itself, only cmd/kyc does.
type fileShape struct {
	Strict           bool             `yaml:"strict"`
	DialectExtension string           `yaml:"dialectExtension"`
	Emitter          EmitterOptions   `yaml:"emitter"`
	Validator        ValidatorOptions `yaml:"validator"`
	MaxPassIterations int             `yaml:"maxPassIterations"`
}

// LoadFile reads a kyc.config.yaml and overlays it onto Default(). Only
// cmd/kyc calls this; the transform pipeline itself never touches the
// filesystem (SPEC_FULL.md's ambient-stack "Configuration" section).
func LoadFile(path string) (Options, error) {
	opts := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}

	var shape fileShape
	shape.Emitter = opts.Emitter
	shape.Validator = opts.Validator
	if err := yaml.Unmarshal(raw, &shape); err != nil {
		return opts, err
	}

	opts.Strict = shape.Strict
	if shape.DialectExtension != "" {
		opts.DialectExtension = shape.DialectExtension
	}
	opts.Emitter = shape.Emitter
	opts.Validator = shape.Validator
	if shape.MaxPassIterations > 0 {
		opts.MaxPassIterations = shape.MaxPassIterations
	}
	return opts, nil
}
