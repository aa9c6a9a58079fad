// Package printer walks the fully transformed IR and emits deterministic
// ECMAScript text (spec.md §4.5). Printing is a pure function of the IR
// plus the import tracker's final state: the same input always produces
// byte-identical output, matching spec.md §8's determinism invariant.
package printer

import (
	"fmt"

	"github.com/kythera-lang/kyc/internal/ast"
	"github.com/kythera-lang/kyc/internal/config"
	"github.com/kythera-lang/kyc/internal/helpers"
	"github.com/kythera-lang/kyc/internal/importtrack"
	"github.com/kythera-lang/kyc/internal/ir"
	"github.com/kythera-lang/kyc/internal/logger"
)

// Options configures one Print call. It is a thin projection of
// config.Options; the emitter never reads config directly so it can be
// exercised without constructing a full pipeline Options value.
type Options struct {
	Indent           config.IndentStyle
	ASCIISafe        bool
	DialectExtension string
}

type printer struct {
	js     helpers.Joiner
	opts   Options
	indent int
	log    logger.Log
	source logger.Source
}

// Print renders program (after all four transform passes) plus the
// imports accumulated in tracker into a single module's source text.
func Print(program ir.Program, tracker *importtrack.Tracker, opts Options, source logger.Source, log logger.Log) ([]byte, []logger.Msg) {
	var msgs []logger.Msg
	capturingLog := logger.Log{
		AddMsg:     func(m logger.Msg) { msgs = append(msgs, m); log.AddMsg(m) },
		HasErrors:  log.HasErrors,
		AlmostDone: log.AlmostDone,
		Done:       log.Done,
	}
	p := &printer{opts: opts, log: capturingLog, source: source}

	p.printPreamble(tracker)

	for _, node := range program.Body {
		p.printTopLevelNode(node)
	}

	return p.js.Done(), msgs
}

func (p *printer) unsupportedNode(loc ast.Loc, what string) {
	p.log.AddError(&p.source, loc, logger.PhaseEmitter, fmt.Sprintf("unsupported IR node: %s", what))
}

func (p *printer) printIndent() {
	style := p.opts.Indent.String()
	for i := 0; i < p.indent; i++ {
		p.js.AddString(style)
	}
}

func (p *printer) newline() { p.js.AddString("\n") }

// printPreamble writes one `import` statement per resolved source,
// ordered lexicographically by path with named specifiers sorted
// alphabetically, per importtrack.Tracker.Finalize's determinism
// contract.
func (p *printer) printPreamble(tracker *importtrack.Tracker) {
	sources := tracker.Finalize(p.opts.DialectExtension)
	if len(sources) == 0 {
		return
	}
	for _, s := range sources {
		p.printImportSource(s)
	}
	p.newline()
}

func (p *printer) printImportSource(s importtrack.Source) {
	var clauses []string
	for _, d := range s.Defaults {
		clauses = append(clauses, d)
	}
	for _, n := range s.Namespaces {
		clauses = append(clauses, "* as "+n)
	}
	if len(s.Named) > 0 {
		named := "{ "
		for i, spec := range s.Named {
			if i > 0 {
				named += ", "
			}
			if spec.ImportedName == spec.LocalName {
				named += spec.LocalName
			} else {
				named += spec.ImportedName + " as " + spec.LocalName
			}
		}
		named += " }"
		clauses = append(clauses, named)
	}
	if len(clauses) == 0 {
		// Side-effect-only import; shouldn't occur from the tracker today
		// but keep the shape valid if it ever does.
		p.js.AddString("import ")
		p.js.AddBytes(p.quote(s.Path))
		p.js.AddString(";")
		p.newline()
		return
	}
	p.js.AddString("import ")
	for i, c := range clauses {
		if i > 0 {
			p.js.AddString(", ")
		}
		p.js.AddString(c)
	}
	p.js.AddString(" from ")
	p.js.AddBytes(p.quote(s.Path))
	p.js.AddString(";")
	p.newline()
}

func (p *printer) quote(s string) []byte {
	return helpers.QuoteSingle(s, p.opts.ASCIISafe)
}

func (p *printer) quotePropKey(name string) []byte {
	if isValidIdentifier(name) {
		return []byte(name)
	}
	return p.quote(name)
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
