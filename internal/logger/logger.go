// Package logger collects diagnostics produced while compiling one source
// file and knows how to pretty-print them to a terminal. Every pipeline
// phase (lexer, parser, analyzer, transform, printer) is handed a Log value
// and never imports a concrete logger type, only this bundle of closures.
package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

const defaultTerminalWidth = 80

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool

	// Called once after the last message has been added, before Done is
	// read. Lets a deferred warning get flushed only if no error followed it.
	AlmostDone func()

	Done func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("unreachable msg kind")
	}
}

// Phase identifies which stage of the pipeline produced a message. It
// mirrors the closed set named in spec §6: lexer, parser, analyzer,
// transform, emitter, validator, pipeline.
type Phase uint8

const (
	PhaseLexer Phase = iota
	PhaseParser
	PhaseAnalyzer
	PhaseTransform
	PhaseEmitter
	PhaseValidator
	PhasePipeline
)

func (p Phase) String() string {
	switch p {
	case PhaseLexer:
		return "lexer"
	case PhaseParser:
		return "parser"
	case PhaseAnalyzer:
		return "analyzer"
	case PhaseTransform:
		return "transform"
	case PhaseEmitter:
		return "emitter"
	case PhaseValidator:
		return "validator"
	case PhasePipeline:
		return "pipeline"
	default:
		return "unknown"
	}
}

type Msg struct {
	Kind  MsgKind
	Phase Phase
	Data  MsgData
	Notes []MsgData
}

type MsgData struct {
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File       string
	Line       int // 1-based
	Column     int // 0-based, in bytes
	Length     int // in bytes
	LineText   string
	Suggestion string
}

// Loc is a 0-based byte offset from the start of the file.
type Loc struct {
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 { return r.Loc.Start + r.Len }

type sortableMsgs []Msg

func (a sortableMsgs) Len() int      { return len(a) }
func (a sortableMsgs) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a sortableMsgs) Less(i, j int) bool {
	ai, aj := a[i], a[j]
	aiLoc, ajLoc := ai.Data.Location, aj.Data.Location
	if aiLoc == nil || ajLoc == nil {
		return aiLoc == nil && ajLoc != nil
	}
	if aiLoc.Line != ajLoc.Line {
		return aiLoc.Line < ajLoc.Line
	}
	if aiLoc.Column != ajLoc.Column {
		return aiLoc.Column < ajLoc.Column
	}
	if ai.Kind != aj.Kind {
		return ai.Kind < aj.Kind
	}
	return ai.Data.Text < aj.Data.Text
}

// Source is the one file being compiled in a pipeline call.
type Source struct {
	// Pretty-printed path used in diagnostics; never used for file I/O.
	PrettyPath string
	Contents   string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

func computeLineAndColumn(contents string, offset int) (lineCount int, columnCount int, lineStart int, lineEnd int) {
	var prevCodePoint rune
	if offset > len(contents) {
		offset = len(contents)
	}
	for i, codePoint := range contents[:offset] {
		switch codePoint {
		case '\n':
			lineStart = i + 1
			if prevCodePoint != '\r' {
				lineCount++
			}
		case '\r':
			lineStart = i + 1
			lineCount++
		case '\u2028', '\u2029':
			lineStart = i + 3
			lineCount++
		}
		prevCodePoint = codePoint
	}
	lineEnd = len(contents)
loop:
	for i, codePoint := range contents[offset:] {
		switch codePoint {
		case '\r', '\n', '\u2028', '\u2029':
			lineEnd = offset + i
			break loop
		}
	}
	columnCount = offset - lineStart
	return
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	lineCount, columnCount, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     lineCount + 1,
		Column:   columnCount,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

func RangeData(source *Source, r Range, text string) MsgData {
	return MsgData{Text: text, Location: LocationOrNil(source, r)}
}

func (log Log) AddError(source *Source, loc Loc, phase Phase, text string) {
	log.AddMsg(Msg{Kind: Error, Phase: phase, Data: RangeData(source, Range{Loc: loc}, text)})
}

func (log Log) AddWarning(source *Source, loc Loc, phase Phase, text string) {
	log.AddMsg(Msg{Kind: Warning, Phase: phase, Data: RangeData(source, Range{Loc: loc}, text)})
}

func (log Log) AddRangeError(source *Source, r Range, phase Phase, text string) {
	log.AddMsg(Msg{Kind: Error, Phase: phase, Data: RangeData(source, r, text)})
}

func (log Log) AddRangeWarning(source *Source, r Range, phase Phase, text string) {
	log.AddMsg(Msg{Kind: Warning, Phase: phase, Data: RangeData(source, r, text)})
}

// NewDeferLog buffers messages in memory and returns them sorted from
// Done. pkg/api.Transform does not use it; it builds its own Log.
func NewDeferLog() Log {
	var msgs sortableMsgs
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		AlmostDone: func() {},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}

type UseColor uint8

const (
	ColorIfTerminal UseColor = iota
	ColorNever
	ColorAlways
)

type OutputOptions struct {
	IncludeSource bool
	MessageLimit  int
	Color         UseColor
	LogLevel      LogLevel
}

// NewStderrLog pretty-prints messages to stderr as they arrive, in the
// style cmd/kyc uses for interactive builds.
func NewStderrLog(options OutputOptions) Log {
	var mutex sync.Mutex
	var msgs sortableMsgs
	terminalInfo := GetTerminalInfo(os.Stderr)
	errors := 0
	warnings := 0
	hasErrors := false
	remaining := options.MessageLimit
	if remaining == 0 {
		remaining = 0x7FFFFFFF
	}
	var deferredWarnings []Msg
	didFinalize := false

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	finalize := func() {
		if didFinalize {
			return
		}
		didFinalize = true
		for remaining > 0 && len(deferredWarnings) > 0 {
			writeStringWithColor(os.Stderr, deferredWarnings[0].String(options, terminalInfo))
			deferredWarnings = deferredWarnings[1:]
			remaining--
		}
		if options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
			writeStringWithColor(os.Stderr, fmt.Sprintf("%s\n", summarize(errors, warnings)))
		}
	}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			switch msg.Kind {
			case Error:
				hasErrors = true
				if options.LogLevel <= LevelError {
					errors++
				}
			case Warning:
				if options.LogLevel <= LevelWarning {
					warnings++
				}
			}

			if remaining == 0 {
				return
			}

			switch msg.Kind {
			case Error:
				if options.LogLevel <= LevelError {
					writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
					remaining--
				}
			case Warning:
				if options.LogLevel <= LevelWarning {
					if remaining > (options.MessageLimit+1)/2 {
						writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
						remaining--
					} else {
						deferredWarnings = append(deferredWarnings, msg)
					}
				}
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		AlmostDone: func() {
			mutex.Lock()
			defer mutex.Unlock()
			finalize()
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			finalize()
			sort.Stable(msgs)
			return msgs
		},
	}
}

func summarize(errors, warnings int) string {
	plural := func(noun string, n int) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, noun)
		}
		return fmt.Sprintf("%d %ss", n, noun)
	}
	switch {
	case errors == 0:
		return plural("warning", warnings)
	case warnings == 0:
		return plural("error", errors)
	default:
		return fmt.Sprintf("%s and %s", plural("warning", warnings), plural("error", errors))
	}
}

type Colors struct {
	Reset, Bold, Dim, Underline string
	Red, Green, Blue            string
	Cyan, Magenta, Yellow       string
}

const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[37m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorBlue    = "\033[34m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorYellow  = "\033[33m"
)

var TerminalColors = Colors{
	Reset: colorReset, Bold: colorBold, Dim: colorDim, Underline: "\033[4m",
	Red: colorRed, Green: colorGreen, Blue: colorBlue,
	Cyan: colorCyan, Magenta: colorMagenta, Yellow: colorYellow,
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

func hasNoColorEnvironmentVariable() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func (msg Msg) String(options OutputOptions, terminalInfo TerminalInfo) string {
	maxMargin := 0
	if options.IncludeSource && msg.Data.Location != nil {
		maxMargin = len(fmt.Sprintf("%d", msg.Data.Location.Line))
	}
	text := msgString(options.IncludeSource, terminalInfo, msg.Kind, msg.Phase, msg.Data, maxMargin)
	for _, note := range msg.Notes {
		text += msgString(options.IncludeSource, terminalInfo, Note, msg.Phase, note, maxMargin)
	}
	if options.IncludeSource {
		text += "\n"
	}
	return text
}

const extraMarginChars = 7

func marginWithLineText(maxMargin int, line int) string {
	number := fmt.Sprintf("%d", line)
	return fmt.Sprintf("    %s%s │ ", strings.Repeat(" ", maxMargin-len(number)), number)
}

func emptyMarginText(maxMargin int, isLast bool) string {
	space := strings.Repeat(" ", maxMargin)
	if isLast {
		return fmt.Sprintf("    %s ╵ ", space)
	}
	return fmt.Sprintf("    %s │ ", space)
}

func msgString(includeSource bool, terminalInfo TerminalInfo, kind MsgKind, phase Phase, data MsgData, maxMargin int) string {
	var colors Colors
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}

	var kindColor string
	switch kind {
	case Error:
		kindColor = colors.Red
	case Warning:
		kindColor = colors.Magenta
	case Note:
		kindColor = colors.Bold
	}

	prefix := fmt.Sprintf("[%s] ", phase)
	if kind == Note {
		prefix = "  "
	}

	if data.Location == nil {
		return fmt.Sprintf("%s%s%s%s: %s%s\n", colors.Bold, prefix, kindColor, kind.String(), colors.Reset, data.Text)
	}
	if !includeSource {
		return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s\n", prefix, data.Location.File, data.Location.Line, data.Location.Column, kindColor, kind.String(), colors.Reset, data.Text)
	}

	d := detailStruct(data, terminalInfo, maxMargin)
	return fmt.Sprintf("%s%s%s:%d:%d: %s%s: %s%s\n%s%s%s%s%s%s%s\n%s%s%s%s%s%s\n",
		colors.Bold, prefix, d.Path, d.Line, d.Column,
		kindColor, kind.String(), colors.Reset, d.Message,
		colors.Dim, d.SourceBefore, colors.Green, d.SourceMarked, colors.Dim, d.SourceAfter,
		emptyMarginText(maxMargin, true), d.Indent, colors.Green, d.Marker, colors.Reset, d.ContentAfter)
}

type msgDetail struct {
	Path, Message                      string
	Line, Column                       int
	SourceBefore, SourceMarked, SourceAfter string
	Indent, Marker, ContentAfter        string
}

func detailStruct(data MsgData, terminalInfo TerminalInfo, maxMargin int) msgDetail {
	loc := *data.Location
	endOfFirstLine := len(loc.LineText)
	for i, c := range loc.LineText {
		if c == '\r' || c == '\n' || c == ' ' || c == ' ' {
			endOfFirstLine = i
			break
		}
	}
	firstLine := loc.LineText[:endOfFirstLine]
	afterFirstLine := loc.LineText[endOfFirstLine:]

	if loc.Column < 0 {
		loc.Column = 0
	}
	if loc.Length < 0 {
		loc.Length = 0
	}
	if loc.Column > endOfFirstLine {
		loc.Column = endOfFirstLine
	}
	if loc.Length > endOfFirstLine-loc.Column {
		loc.Length = endOfFirstLine - loc.Column
	}

	lineText := firstLine
	markerStart := loc.Column
	markerEnd := markerStart
	if loc.Length > 0 {
		markerEnd = loc.Column + loc.Length
	}
	if markerEnd > len(lineText) {
		markerEnd = len(lineText)
	}
	indent := strings.Repeat(" ", estimateWidth(lineText[:markerStart]))
	marker := "^"
	if markerEnd-markerStart > 1 {
		marker = strings.Repeat("~", estimateWidth(lineText[markerStart:markerEnd]))
	}

	margin := marginWithLineText(maxMargin, loc.Line)
	return msgDetail{
		Path: loc.File, Line: loc.Line, Column: loc.Column, Message: data.Text,
		SourceBefore: margin + lineText[:markerStart],
		SourceMarked: lineText[markerStart:markerEnd],
		SourceAfter:  lineText[markerEnd:],
		Indent:       indent,
		Marker:       marker,
		ContentAfter: afterFirstLine,
	}
}

func estimateWidth(text string) int {
	width := 0
	for text != "" {
		c, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if c != 0xFEFF {
			width++
		}
	}
	return width
}
