// Package importtrack is the shared sink described in spec.md §3/§4.5: an
// ordered-by-source, alphabetical-by-specifier map that the transformer
// passes write to and the emitter reads exactly once while building the
// preamble. One Tracker belongs to exactly one pipeline call; it is never
// shared across concurrent transform() invocations (spec.md §5).
package importtrack

import (
	"sort"
	"strings"
)

type SpecifierKind uint8

const (
	Named SpecifierKind = iota
	Default
	Namespace
	TypeOnly
)

type Specifier struct {
	Kind         SpecifierKind
	ImportedName string // meaningless for Default/Namespace
	LocalName    string
}

// Tracker accumulates imports across the four transform passes. Record is
// idempotent: recording the same (source, specifier) pair twice is a
// no-op, so passes don't need to de-duplicate themselves.
type Tracker struct {
	bySource map[string][]Specifier
	seen     map[string]map[string]bool // source -> dedupe key -> true
}

func New() *Tracker {
	return &Tracker{
		bySource: make(map[string][]Specifier),
		seen:     make(map[string]map[string]bool),
	}
}

func dedupeKey(s Specifier) string {
	switch s.Kind {
	case Named:
		return "named:" + s.ImportedName + ">" + s.LocalName
	case Default:
		return "default:" + s.LocalName
	case Namespace:
		return "namespace:" + s.LocalName
	case TypeOnly:
		return "type:" + s.ImportedName + ">" + s.LocalName
	default:
		return ""
	}
}

func (t *Tracker) Record(source string, spec Specifier) {
	if t.seen[source] == nil {
		t.seen[source] = make(map[string]bool)
	}
	key := dedupeKey(spec)
	if t.seen[source][key] {
		return
	}
	t.seen[source][key] = true
	t.bySource[source] = append(t.bySource[source], spec)
}

func (t *Tracker) RecordNamed(source, imported, local string) {
	t.Record(source, Specifier{Kind: Named, ImportedName: imported, LocalName: local})
}

func (t *Tracker) RecordDefault(source, local string) {
	t.Record(source, Specifier{Kind: Default, LocalName: local})
}

// resolvedSource rewrites a dialect-extension source path to ".js" and
// strips any query string, per spec.md §3.
func resolvedSource(source string, dialectExt string) string {
	if i := strings.IndexByte(source, '?'); i >= 0 {
		source = source[:i]
	}
	if dialectExt != "" && strings.HasSuffix(source, dialectExt) {
		source = strings.TrimSuffix(source, dialectExt) + ".js"
	}
	return source
}

// ResolvedSource exposes resolvedSource for the emitter, which must apply
// the same rewrite when deciding output grouping.
func ResolvedSource(source, dialectExt string) string { return resolvedSource(source, dialectExt) }

// Source is one resolved import source with its final (non-type-only)
// specifiers, sorted and ready for the emitter.
type Source struct {
	Path       string
	Defaults   []string // 0 or 1 in valid ES, but the tracker doesn't enforce that
	Namespaces []string
	Named      []Specifier // ImportedName/LocalName, sorted alphabetically by ImportedName
}

// Finalize resolves source paths, drops TypeOnly specifiers, merges
// specifiers recorded under distinct raw sources that resolve to the same
// final path, and returns sources ordered lexicographically with each
// source's named specifiers sorted alphabetically — the determinism
// contract the emitter relies on.
func (t *Tracker) Finalize(dialectExt string) []Source {
	merged := make(map[string]*Source)
	var order []string

	for rawSource, specs := range t.bySource {
		resolved := resolvedSource(rawSource, dialectExt)
		s, ok := merged[resolved]
		if !ok {
			s = &Source{Path: resolved}
			merged[resolved] = s
			order = append(order, resolved)
		}
		for _, spec := range specs {
			switch spec.Kind {
			case TypeOnly:
				continue
			case Default:
				s.Defaults = append(s.Defaults, spec.LocalName)
			case Namespace:
				s.Namespaces = append(s.Namespaces, spec.LocalName)
			case Named:
				s.Named = append(s.Named, spec)
			}
		}
	}

	sort.Strings(order)
	result := make([]Source, 0, len(order))
	for _, path := range order {
		s := merged[path]
		sort.Strings(s.Defaults)
		sort.Strings(s.Namespaces)
		sort.Slice(s.Named, func(i, j int) bool {
			if s.Named[i].ImportedName != s.Named[j].ImportedName {
				return s.Named[i].ImportedName < s.Named[j].ImportedName
			}
			return s.Named[i].LocalName < s.Named[j].LocalName
		})
		result = append(result, *s)
	}
	return result
}
