package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kythera-lang/kyc/internal/logger"
	"github.com/kythera-lang/kyc/pkg/api"
)

// printDiagnostics renders a Result's diagnostics the way the teacher's
// own CLI renders logger.Msg: one colorized line per diagnostic when
// stderr is a terminal, plain text otherwise. It reuses the logger
// package's terminal probe and color table rather than re-deriving them,
// since that probe is what the per-OS logger_unix/_windows files exist
// to serve.
func printDiagnostics(diags []api.Diagnostic) {
	info := logger.GetTerminalInfo(os.Stderr)
	var colors logger.Colors
	if info.UseColorEscapes {
		colors = logger.TerminalColors
	}

	for _, d := range diags {
		color := colors.Cyan
		switch d.Severity {
		case api.SeverityError:
			color = colors.Red
		case api.SeverityWarning:
			color = colors.Yellow
		}

		var loc string
		if d.Location != nil {
			loc = fmt.Sprintf("%s:%d:%d: ", d.Location.File, d.Location.Line, d.Location.Column)
		}

		fmt.Fprintf(os.Stderr, "%s%s%s%s%s: %s%s\n",
			loc, color, d.Severity, colors.Reset, colors.Dim+" ["+string(d.Phase)+"]"+colors.Reset, colors.Bold, d.Message+colors.Reset)
	}
}

func summarize(diags []api.Diagnostic) string {
	errs, warns := 0, 0
	for _, d := range diags {
		switch d.Severity {
		case api.SeverityError:
			errs++
		case api.SeverityWarning:
			warns++
		}
	}
	parts := []string{}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warns))
	}
	if len(parts) == 0 {
		return "no diagnostics"
	}
	return strings.Join(parts, ", ")
}
