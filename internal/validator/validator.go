// Package validator implements the optional post-emit syntactic sanity
// check named in spec.md §6 (`validator.enabled`). The dialect's surface
// syntax is a superset of the plain ESM subset the emitter produces
// (no component keyword, no JSX, no type annotations survive Pass 4), so
// re-running the same lexer/parser over the emitted text is a cheap,
// accurate way to catch an emitter bug that produced malformed output
// without needing a second, independent JS grammar.
package validator

import (
	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/internal/parser"
)

// Validate re-parses emitted code and reports any parse error as a
// PhaseValidator diagnostic. It never touches the original source or IR —
// by the time this runs, the only question left is "does the text the
// emitter produced actually parse."
func Validate(code string, prettyPath string) []logger.Msg {
	var msgs []logger.Msg
	log := logger.Log{
		AddMsg: func(m logger.Msg) { m.Phase = logger.PhaseValidator; msgs = append(msgs, m) },
		HasErrors: func() bool {
			for _, m := range msgs {
				if m.Kind == logger.Error {
					return true
				}
			}
			return false
		},
		AlmostDone: func() {},
		Done:       func() []logger.Msg { return msgs },
	}
	source := logger.Source{PrettyPath: prettyPath, Contents: code}
	parser.Parse(log, source)
	return msgs
}
