package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	herrors "git.home.luguber.info/inful/docpolish/internal/highlight/errors"
)

// Highlight span classes. These are the classes rustdoc's own stylesheet
// already styles, so wrapped tokens render exactly like generator-highlighted
// ones.
const (
	ClassKeyword  = "kw"
	ClassOperator = "kw-2"
)

// keywords is the closed vocabulary of the keyword-sequence pass. Longer
// tokens must come before their prefixes ("impl" before "in") so alternation
// never settles on a partial token.
var keywords = []string{
	"extern", "return", "static", "struct", "unsafe",
	"async", "const", "crate", "match", "super", "trait", "union", "while",
	"else", "enum", "impl", "loop", "move", "self", "Self", "type", "where",
	"dyn", "for", "let", "mod", "mut", "pub", "ref", "use",
	"as", "fn", "if", "in",
}

var keywordAlt = strings.Join(keywords, "|")

// Pass is one ordered rewrite rule. The compiled pattern designates the token
// submatch to wrap; the remainder of the match is reproduced verbatim around
// the inserted span.
type Pass struct {
	Name  string
	Class string

	re     *regexp.Regexp
	group  int // token submatch index
	protRE *regexp.Regexp

	// prev lists the characters that must immediately precede the match when
	// the pattern itself carries no leading group.
	prev string
	// notNext lists characters the match must not be followed by.
	notNext string
	// allowSpanCloseAnchor permits a `>` anchor that is the closing bracket
	// of an existing highlight span. Keyword passes must refuse such anchors
	// or a second run would wrap tokens adjacent to spans the first run
	// inserted.
	allowSpanCloseAnchor bool
}

// The built-in table. Order is the contract: the modifier pass depends on the
// keyword pass having consumed most mut/const occurrences, and the operator
// pass matches against span close brackets the earlier passes insert.
var (
	// passKeywords wraps runs of space-separated vocabulary tokens. The run
	// must follow a tag end, an entity end `;`, `[` or `(` (optionally with
	// non-tag text ending in a space in between) and must be terminated by
	// one of `< & \n : , )`, or by a space whose following word stops at
	// `<`, `&` or `(`. The termination rule is what keeps prose like
	// "const is a keyword" unwrapped.
	passKeywords = &Pass{
		Name:  "keywords",
		Class: ClassKeyword,
		re: regexp.MustCompile(`([>;\[(](?:[^<>]*? )?)` +
			`((?:` + keywordAlt + `)(?: (?:` + keywordAlt + `))*)` +
			`([<&\n:,)]| [0-9A-Za-z_]*[<&(])`),
		group:  2,
		protRE: protectedFor(ClassKeyword),
	}

	// passModifiers wraps residual mut/const occurrences in reference and
	// pointer type positions (`&amp;mut`, `*const`) that the keyword pass's
	// termination set rejects. Runs strictly after passKeywords.
	passModifiers = &Pass{
		Name:   "modifiers",
		Class:  ClassKeyword,
		re:     regexp.MustCompile(`([;\[(*])(mut|const)( )`),
		group:  2,
		protRE: protectedFor(ClassKeyword),
	}

	// passOperators wraps reference, arrow, path separator and dereference
	// tokens. The preceding character is checked outside the pattern so that
	// adjacent operators (`&amp;&amp;`) anchor on each other's entity
	// terminator without overlapping matches. A following `/` is excluded to
	// stay out of closing tags and comment terminators. Runs after the
	// keyword passes: their span close brackets are valid anchors here.
	passOperators = &Pass{
		Name:                 "operators",
		Class:                ClassOperator,
		re:                   regexp.MustCompile(`(-&gt;|&amp;|::|\*)`),
		group:                1,
		protRE:               protectedFor(ClassOperator),
		prev:                 `>;[( `,
		notNext:              `/`,
		allowSpanCloseAnchor: true,
	}

	// passWhere wraps the clause introducer inside rustdoc's dedicated
	// where-clause containers. Scoped by the containing block instead of
	// local character anchors; prose outside such containers is never
	// touched, prose inside them is a known approximation.
	passWhere = &Pass{
		Name:                 "where-clause",
		Class:                ClassKeyword,
		re:                   regexp.MustCompile(`(class="where(?: [^"]*)?">)(where)([ \n<])`),
		group:                2,
		protRE:               protectedFor(ClassKeyword),
		allowSpanCloseAnchor: true,
	}

	passTable = []*Pass{passKeywords, passModifiers, passOperators, passWhere}
)

// classRE limits span classes to plain tokens so user classes cannot break
// the protection pattern.
var classRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewExtraPass builds a user-defined pass from a config entry. The pattern
// must contain exactly one capture group naming the token to wrap.
func NewExtraPass(name, pattern, class string) (*Pass, error) {
	if name == "" || !classRE.MatchString(class) {
		return nil, fmt.Errorf("%w: name and a plain class token are required", herrors.ErrBadPassPattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", herrors.ErrBadPassPattern, name, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%w: %s: pattern needs exactly one capture group, has %d", herrors.ErrBadPassPattern, name, re.NumSubexp())
	}
	return &Pass{
		Name:                 name,
		Class:                class,
		re:                   re,
		group:                1,
		protRE:               protectedFor(class),
		allowSpanCloseAnchor: true,
	}, nil
}

// protectedFor builds the pattern identifying flat highlight spans whose
// contents a pass must never rewrap: the two built-in classes plus the pass's
// own class. Other span classes (rustdoc structural containers like "where")
// stay rewritable.
func protectedFor(class string) *regexp.Regexp {
	classes := ClassKeyword + `|` + ClassOperator
	if class != ClassKeyword && class != ClassOperator {
		classes += `|` + regexp.QuoteMeta(class)
	}
	return regexp.MustCompile(`<span class="(?:` + classes + `)">[^<]*</span>`)
}

type span struct{ start, end int }

func (p *Pass) protectedRanges(s string) []span {
	idx := p.protRE.FindAllStringIndex(s, -1)
	if idx == nil {
		return nil
	}
	ranges := make([]span, len(idx))
	for i, m := range idx {
		ranges[i] = span{start: m[0], end: m[1]}
	}
	return ranges
}

// overlapsProtected reports whether [start,end) intersects any protected range.
func overlapsProtected(ranges []span, start, end int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].end > start })
	return i < len(ranges) && ranges[i].start < end
}

// protectedEndsAt reports whether some protected range ends exactly at pos.
func protectedEndsAt(ranges []span, pos int) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].end >= pos })
	return i < len(ranges) && ranges[i].end == pos
}

// applyOnce performs a single left-to-right sweep of the pass over src.
// Candidates whose token lies inside a protected span are skipped, as are
// matches anchored on a highlight span's closing bracket when the pass
// forbids that.
func (p *Pass) applyOnce(src string) (string, bool) {
	matches := p.re.FindAllStringSubmatchIndex(src, -1)
	if matches == nil {
		return src, false
	}

	protected := p.protectedRanges(src)
	var b strings.Builder
	last := 0
	changed := false

	for _, m := range matches {
		t0, t1 := m[2*p.group], m[2*p.group+1]
		if t0 < 0 {
			continue
		}
		if p.prev != "" {
			if m[0] == 0 || !strings.ContainsRune(p.prev, rune(src[m[0]-1])) {
				continue
			}
		}
		if p.notNext != "" {
			if m[1] >= len(src) || strings.ContainsRune(p.notNext, rune(src[m[1]])) {
				continue
			}
		}
		if overlapsProtected(protected, t0, t1) {
			continue
		}
		if !p.allowSpanCloseAnchor {
			anchor := m[0]
			if p.prev != "" {
				anchor = m[0] - 1
			}
			if src[anchor] == '>' && protectedEndsAt(protected, anchor+1) {
				continue
			}
		}

		b.WriteString(src[last:t0])
		b.WriteString(`<span class="`)
		b.WriteString(p.Class)
		b.WriteString(`">`)
		b.WriteString(src[t0:t1])
		b.WriteString(`</span>`)
		b.WriteString(src[t1:m[1]])
		last = m[1]
		changed = true
	}

	if !changed {
		return src, false
	}
	b.WriteString(src[last:])
	return b.String(), true
}

// apply runs the pass to a fixed point. Spans inserted by one sweep can
// expose anchors for tokens a non-overlapping scan had to pass over; the
// protected-range guard makes the iteration converge.
func (p *Pass) apply(src string) (string, bool) {
	changed := false
	for {
		out, more := p.applyOnce(src)
		if !more {
			return src, changed
		}
		src = out
		changed = true
	}
}
