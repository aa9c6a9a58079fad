// Package api is the single public entry point described in spec.md §6:
// one call that runs source through every pipeline phase and returns the
// emitted code plus every diagnostic collected along the way. Everything
// under internal/ is wired together here; nothing outside this package
// (including cmd/kyc) reaches into the phases directly.
package api

import (
	"fmt"
	"time"

	"github.com/kythera-lang/kyc/internal/analyzer"
	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/internal/helpers"
	"github.com/kythera-lang/kyc/internal/importtrack"
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
	"github.com/kythera-lang/kyc/internal/printer"
	"github.com/kythera-lang/kyc/internal/transform"
	"github.com/kythera-lang/kyc/internal/validator"
)

// RuntimePaths mirrors config.RuntimePaths at the public surface so
// callers never need to import internal/config directly.
type RuntimePaths struct {
	Core       string
	JSXRuntime string
	Registry   string
	Hooks      string
}

// EmitterOptions mirrors spec.md §6's `emitter.*` option group.
type EmitterOptions struct {
	Indent       config.IndentStyle
	RuntimePaths RuntimePaths
	ASCIISafe    bool
}

// TransformOptions is the full set of options spec.md §6 says `transform`
// recognizes.
type TransformOptions struct {
	FilePath string
	Debug    bool
	Strict   bool

	Emitter EmitterOptions

	// ValidatorEnabled runs the post-emit syntactic sanity check
	// (internal/validator) when true.
	ValidatorEnabled bool
}

// Severity mirrors logger.MsgKind at the public surface.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Phase mirrors logger.Phase at the public surface.
type Phase string

const (
	PhaseLexer     Phase = "lexer"
	PhaseParser    Phase = "parser"
	PhaseAnalyzer  Phase = "analyzer"
	PhaseTransform Phase = "transform"
	PhaseEmitter   Phase = "emitter"
	PhaseValidator Phase = "validator"
	PhasePipeline  Phase = "pipeline"
)

// Location is the optional position spec.md §6 attaches to a diagnostic.
type Location struct {
	File     string
	Line     int
	Column   int
	Length   int
	LineText string
}

// Diagnostic is one entry in Result.Diagnostics, in source order.
type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Message  string
	Location *Location
}

// Metrics reports wall-clock time spent in each phase, per spec.md §6's
// optional `result.metrics`.
type Metrics struct {
	Parse     time.Duration
	Analyze   time.Duration
	Transform time.Duration
	Emit      time.Duration
	Validate  time.Duration
	Total     time.Duration
}

// Result is what Transform returns: the emitted code (empty on any
// error-severity diagnostic, per spec.md §7's propagation policy),
// every diagnostic in source order, and phase timings.
type Result struct {
	Code        string
	Diagnostics []Diagnostic
	Metrics     Metrics
}

var phaseNames = map[logger.Phase]Phase{
	logger.PhaseLexer:     PhaseLexer,
	logger.PhaseParser:    PhaseParser,
	logger.PhaseAnalyzer:  PhaseAnalyzer,
	logger.PhaseTransform: PhaseTransform,
	logger.PhaseEmitter:   PhaseEmitter,
	logger.PhaseValidator: PhaseValidator,
	logger.PhasePipeline:  PhasePipeline,
}

func toDiagnostic(m logger.Msg, strict bool) Diagnostic {
	severity := SeverityNote
	switch m.Kind {
	case logger.Error:
		severity = SeverityError
	case logger.Warning:
		severity = SeverityWarning
		if strict {
			severity = SeverityError
		}
	}
	d := Diagnostic{
		Severity: severity,
		Phase:    phaseNames[m.Phase],
		Message:  m.Data.Text,
	}
	if loc := m.Data.Location; loc != nil {
		d.Location = &Location{
			File:     loc.File,
			Line:     loc.Line,
			Column:   loc.Column,
			Length:   loc.Length,
			LineText: loc.LineText,
		}
	}
	return d
}

func buildConfig(opts TransformOptions) config.Options {
	cfg := config.Default()
	cfg.FilePath = opts.FilePath
	cfg.Debug = opts.Debug
	cfg.Strict = opts.Strict
	cfg.Validator.Enabled = opts.ValidatorEnabled

	if opts.Emitter.Indent != 0 || opts.Emitter.RuntimePaths != (RuntimePaths{}) || opts.Emitter.ASCIISafe {
		if opts.Emitter.Indent != 0 {
			cfg.Emitter.Indent = opts.Emitter.Indent
		}
		cfg.Emitter.ASCIISafe = opts.Emitter.ASCIISafe
		rp := opts.Emitter.RuntimePaths
		if rp.Core != "" {
			cfg.Emitter.RuntimePaths.Core = rp.Core
		}
		if rp.JSXRuntime != "" {
			cfg.Emitter.RuntimePaths.JSXRuntime = rp.JSXRuntime
		}
		if rp.Registry != "" {
			cfg.Emitter.RuntimePaths.Registry = rp.Registry
		}
		if rp.Hooks != "" {
			cfg.Emitter.RuntimePaths.Hooks = rp.Hooks
		}
	}
	return cfg
}

// Transform runs source through lexer, parser, analyzer, transformer and
// emitter, in that order, per spec.md §4's pipeline and §7's error
// propagation policy: the emitter only runs when the transformed IR is
// non-empty and no error-severity diagnostic was raised (after `strict`
// has promoted warnings), and any error-severity diagnostic leaves
// result.Code empty.
func Transform(source string, opts TransformOptions) (result Result) {
	start := time.Now()
	cfg := buildConfig(opts)

	defer func() {
		if r := recover(); r != nil {
			msg := logger.Msg{
				Kind:  logger.Error,
				Phase: logger.PhasePipeline,
				Data:  logger.MsgData{Text: fmt.Sprintf("internal error: %v", r)},
			}
			if opts.Debug {
				msg.Data.Text += "\n" + helpers.PrettyPrintedStack()
			}
			result = Result{Diagnostics: []Diagnostic{toDiagnostic(msg, cfg.Strict)}}
			result.Metrics.Total = time.Since(start)
		}
	}()

	var all []logger.Msg
	log := logger.Log{
		AddMsg:     func(m logger.Msg) { all = append(all, m) },
		HasErrors:  func() bool { return false },
		AlmostDone: func() {},
		Done:       func() []logger.Msg { return all },
	}

	src := logger.Source{PrettyPath: opts.FilePath, Contents: source}

	hasError := func(msgs []logger.Msg) bool {
		for _, m := range msgs {
			if m.Kind == logger.Error {
				return true
			}
			if m.Kind == logger.Warning && cfg.Strict {
				return true
			}
		}
		return false
	}

	var metrics Metrics
	defer func() { metrics.Total = time.Since(start); result.Metrics = metrics }()

	t0 := time.Now()
	program, parseMsgs := parser.Parse(log, src)
	metrics.Parse = time.Since(t0)
	all = append(all, parseMsgs...)
	if hasError(parseMsgs) {
		return finishResult(all, cfg, metrics, "")
	}

	t0 = time.Now()
	irProgram, sym, analyzeMsgs := analyzer.Analyze(program, src, log)
	metrics.Analyze = time.Since(t0)
	all = append(all, analyzeMsgs...)
	if hasError(analyzeMsgs) {
		return finishResult(all, cfg, metrics, "")
	}

	tracker := importtrack.New()

	t0 = time.Now()
	irProgram, transformMsgs := transform.Run(irProgram, sym, tracker, cfg, src, log)
	metrics.Transform = time.Since(t0)
	all = append(all, transformMsgs...)
	if hasError(transformMsgs) || len(irProgram.Body) == 0 {
		return finishResult(all, cfg, metrics, "")
	}

	t0 = time.Now()
	code, printMsgs := printer.Print(irProgram, tracker, printer.Options{
		Indent:           cfg.Emitter.Indent,
		ASCIISafe:        cfg.Emitter.ASCIISafe,
		DialectExtension: cfg.DialectExtension,
	}, src, log)
	metrics.Emit = time.Since(t0)
	all = append(all, printMsgs...)
	if hasError(printMsgs) {
		return finishResult(all, cfg, metrics, "")
	}

	if cfg.Validator.Enabled {
		t0 = time.Now()
		validateMsgs := validator.Validate(string(code), opts.FilePath)
		metrics.Validate = time.Since(t0)
		all = append(all, validateMsgs...)
		if hasError(validateMsgs) {
			return finishResult(all, cfg, metrics, "")
		}
	}

	return finishResult(all, cfg, metrics, string(code))
}

func finishResult(all []logger.Msg, cfg config.Options, metrics Metrics, code string) Result {
	diagnostics := make([]Diagnostic, len(all))
	for i, m := range all {
		diagnostics[i] = toDiagnostic(m, cfg.Strict)
	}
	return Result{Code: code, Diagnostics: diagnostics, Metrics: metrics}
}
