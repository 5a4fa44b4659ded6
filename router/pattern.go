package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// paramKey describes one capture group of a compiled pattern, in capture
// order. An empty name means the group is unnamed and its value is keyed by
// the decimal capture index instead.
type paramKey struct {
	name     string
	optional bool
}

// revSegment is one piece of the reverse template used for URL building:
// either a literal chunk or a placeholder referencing a paramKey.
type revSegment struct {
	literal string
	keyIdx  int // -1 for literal segments
}

// patternOptions control template compilation.
type patternOptions struct {
	// strict makes the trailing slash significant for end-anchored patterns.
	strict bool

	// caseSensitive disables the (?i) flag.
	caseSensitive bool

	// endAnchored anchors the pattern at the end of the path. False means
	// prefix (mount) matching: trailing unconsumed path is permitted as
	// long as the consumed prefix ends on a segment boundary.
	endAnchored bool
}

// pattern is a compiled route matcher: an anchored regexp plus the ordered
// parameter descriptors aligned with its capture groups.
type pattern struct {
	template      string
	re            *regexp.Regexp
	keys          []paramKey
	rev           []revSegment // nil for raw regexp patterns
	trailingSlash bool
	endAnchored   bool
	raw           bool
}

// patternMatch is the raw result of matching a path against a pattern:
// captured substrings (still percent-encoded), presence flags for optional
// groups, and the unconsumed remainder of the path.
type patternMatch struct {
	values    []string
	present   []bool
	remainder string
}

// compileTemplate turns a path template of literal segments, ":name"
// placeholders and ":name?" optional placeholders into a pattern. The
// template must start with "/".
func compileTemplate(tpl string, opts patternOptions) (*pattern, error) {
	if tpl == "" || tpl[0] != '/' {
		return nil, fmt.Errorf("path template must start with %q, got %q", "/", tpl)
	}

	trailingSlash := tpl != "/" && strings.HasSuffix(tpl, "/")
	core := strings.TrimSuffix(tpl, "/")

	var (
		expr strings.Builder
		keys []paramKey
		rev  []revSegment
	)

	if !opts.caseSensitive {
		expr.WriteString("(?i)")
	}
	expr.WriteByte('^')

	if core == "" {
		// Root template: matches "/" exactly in anchored mode, or any path
		// in prefix mode.
		expr.WriteByte('/')
		rev = append(rev, revSegment{literal: "/", keyIdx: -1})
	}

	for _, seg := range strings.Split(strings.TrimPrefix(core, "/"), "/") {
		if seg == "" {
			continue
		}
		if seg[0] != ':' {
			expr.WriteByte('/')
			expr.WriteString(regexp.QuoteMeta(seg))
			rev = append(rev, revSegment{literal: "/" + seg, keyIdx: -1})
			continue
		}

		name := seg[1:]
		optional := strings.HasSuffix(name, "?")
		if optional {
			name = strings.TrimSuffix(name, "?")
		}
		if name == "" {
			return nil, fmt.Errorf("missing parameter name in segment %q of %q", seg, tpl)
		}

		if optional {
			// The preceding slash folds into the optional group so the
			// segment can be absent entirely.
			expr.WriteString(`(?:/([^/]+))?`)
		} else {
			expr.WriteString(`/([^/]+)`)
		}
		keys = append(keys, paramKey{name: name, optional: optional})
		rev = append(rev, revSegment{keyIdx: len(keys) - 1})
	}

	if opts.endAnchored {
		if opts.strict {
			if trailingSlash {
				expr.WriteByte('/')
			}
		} else {
			expr.WriteString("/?")
		}
		expr.WriteByte('$')
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", tpl, err)
	}

	return &pattern{
		template:      tpl,
		re:            re,
		keys:          keys,
		rev:           rev,
		trailingSlash: trailingSlash && opts.strict,
		endAnchored:   opts.endAnchored,
	}, nil
}

// compileRegexp wraps a caller-supplied regular expression. Unnamed capture
// groups are captured positionally; (?P<name>...) groups by name. The
// expression must match at the start of the path; end anchoring is the
// caller's responsibility.
func compileRegexp(re *regexp.Regexp, endAnchored bool) *pattern {
	names := re.SubexpNames()
	keys := make([]paramKey, 0, re.NumSubexp())
	for _, name := range names[1:] {
		keys = append(keys, paramKey{name: name})
	}
	return &pattern{
		template:    re.String(),
		re:          re,
		keys:        keys,
		endAnchored: endAnchored,
		raw:         true,
	}
}

// match applies the compiled matcher to path. The returned captures are the
// raw (still encoded) substrings; decoding happens when the parameter map
// is built. In prefix mode a match is accepted only when the consumed
// prefix ends on a segment boundary, the remainder is reconstituted with a
// forced leading slash, and segments captured at the tail of the match are
// handed back as part of the remainder rather than consumed.
func (p *pattern) match(path string) (*patternMatch, bool) {
	idx := p.re.FindStringSubmatchIndex(path)
	if idx == nil || idx[0] != 0 {
		return nil, false
	}

	consumed := idx[1]
	remainder := ""
	if !p.endAnchored {
		// Only the literal prefix is consumed: trailing captured segments
		// stay in the nested view while still populating the parameter map.
		for i := len(p.keys) - 1; i >= 0; i-- {
			start, end := idx[2+2*i], idx[3+2*i]
			if start < 0 || end != consumed {
				break
			}
			consumed = start
			if consumed > 0 && path[consumed-1] == '/' {
				consumed--
			}
		}
		remainder = path[consumed:]
		if remainder != "" && remainder[0] != '/' {
			if consumed == 0 || path[consumed-1] != '/' {
				// Would slice through the middle of a path segment.
				return nil, false
			}
			remainder = "/" + remainder
		}
	}

	n := len(p.keys)
	m := &patternMatch{
		values:    make([]string, n),
		present:   make([]bool, n),
		remainder: remainder,
	}
	for i := 0; i < n; i++ {
		start, end := idx[2+2*i], idx[3+2*i]
		if start < 0 {
			continue
		}
		m.values[i] = path[start:end]
		m.present[i] = true
	}
	return m, true
}

// buildPath substitutes placeholder values into the template, encoding each
// substituted segment independently. get is called once per placeholder in
// template order; returning false for a required placeholder is an error,
// while optional placeholders simply drop their segment.
func (p *pattern) buildPath(get func(idx int, key paramKey) (string, bool)) (string, error) {
	if p.rev == nil {
		return "", ErrNotBuildable
	}

	var b strings.Builder
	for _, seg := range p.rev {
		if seg.keyIdx < 0 {
			b.WriteString(seg.literal)
			continue
		}
		key := p.keys[seg.keyIdx]
		val, ok := get(seg.keyIdx, key)
		if !ok {
			if key.optional {
				continue
			}
			return "", fmt.Errorf("router: missing value for route parameter %q in %q", key.name, p.template)
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(val))
	}

	if p.trailingSlash {
		b.WriteByte('/')
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// pathUnescapeLenient percent-decodes a captured value. Malformed encoding
// keeps the raw text verbatim instead of failing the match.
func pathUnescapeLenient(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
