// Package testutil collects the handful of helpers every stage's tests
// need (a stand-in source for the logger, a collector for recorded
// diagnostics). It mirrors the teacher's internal/test package but
// defers the actual diffing to testify, which already covers the pack's
// assertion needs (SPEC_FULL.md's test-tooling section).
package testutil

import "github.com/kythera-lang/kyc/internal/logger"

// SourceForTest builds the logger.Source every phase needs for its
// location-bearing diagnostics, without requiring a real file on disk.
func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<test>",
		Contents:   contents,
	}
}

// CollectLog returns a Log that appends every message it receives to the
// returned slice's backing pointer, for assertions against msgs directly
// instead of going through logger.NewDeferLog's sort-on-Done pipeline.
func CollectLog() (logger.Log, *[]logger.Msg) {
	// The slice starts nil, like each phase's own returned slice, so the
	// two compare equal when nothing was recorded.
	msgs := new([]logger.Msg)
	return logger.Log{
		AddMsg: func(m logger.Msg) { *msgs = append(*msgs, m) },
		HasErrors: func() bool {
			for _, m := range *msgs {
				if m.Kind == logger.Error {
					return true
				}
			}
			return false
		},
		AlmostDone: func() {},
		Done:       func() []logger.Msg { return *msgs },
	}, msgs
}
