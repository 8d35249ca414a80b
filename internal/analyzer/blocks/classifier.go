package blocks

import (
	"regexp"
	"strings"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// Option configures a Classifier and the analyzers built on it.
type Option func(*classifierOptions)

type classifierOptions struct {
	sizeVar   string
	lookahead int
}

// WithSizeVariable sets the name of the input-size variable (default "n").
func WithSizeVariable(name string) Option {
	return func(o *classifierOptions) {
		if name = strings.TrimSpace(name); name != "" {
			o.sizeVar = name
		}
	}
}

// WithLookahead sets how many lines after a header are searched for a
// doubling update (default 5).
func WithLookahead(n int) Option {
	return func(o *classifierOptions) {
		if n >= 0 {
			o.lookahead = n
		}
	}
}

// Classification is the verdict for a single loop.
type Classification struct {
	Symbol complexity.Symbol
	Bound  models.BoundKind
}

// Classifier decides whether one loop contributes a constant, logarithmic or
// linear factor by matching its header and the few lines after it.
type Classifier struct {
	sizeVar   string
	lookahead int
	braces    bool

	sizeRef      *regexp.Regexp // size variable as a whole word
	sizeCompare  *regexp.Regexp // `var OP n`
	literalBound *regexp.Regexp // `var OP 123`
	rangeLiteral *regexp.Regexp // range(10), range(0, 10, 2)
	rangeCall    *regexp.Regexp
}

// NewClassifier builds a classifier. braces selects the brace-language
// dialect, which also accepts shift updates and reads the update clause of
// counted loops.
func NewClassifier(braces bool, opts ...Option) *Classifier {
	o := classifierOptions{sizeVar: "n", lookahead: DefaultLookahead}
	for _, opt := range opts {
		opt(&o)
	}
	size := regexp.QuoteMeta(o.sizeVar)

	return &Classifier{
		sizeVar:      o.sizeVar,
		lookahead:    o.lookahead,
		braces:       braces,
		sizeRef:      regexp.MustCompile(`\b` + size + `\b`),
		sizeCompare:  regexp.MustCompile(`^\(?\s*(\w+)\s*(?:<=|<|>=|>|!=)\s*` + size + `\s*\)?\s*$`),
		literalBound: regexp.MustCompile(`^\s*\w+\s*(?:<=|<|>=|>|!=)\s*\d+\s*$`),
		rangeLiteral: regexp.MustCompile(`\brange\s*\(\s*-?\d+\s*(?:,\s*-?\d+\s*){0,2}\)`),
		rangeCall:    regexp.MustCompile(`\brange\s*\(([^)]*)\)`),
	}
}

// Lookahead returns the configured window size.
func (c *Classifier) Lookahead() int {
	return c.lookahead
}

// Classify inspects a loop header and the lines that follow it.
func (c *Classifier) Classify(kind models.LoopKind, header string, following []string) Classification {
	if kind == models.LoopWhile {
		return c.classifyCondition(header, following)
	}
	if c.braces {
		return c.classifyCountedBrace(header)
	}
	return c.classifyCountedIndent(header)
}

// classifyCountedIndent handles `for x in ...:` loops.
func (c *Classifier) classifyCountedIndent(header string) Classification {
	if c.rangeLiteral.MatchString(header) {
		return Classification{Symbol: complexity.Constant, Bound: models.BoundConstant}
	}
	if m := c.rangeCall.FindStringSubmatch(header); m != nil && c.sizeRef.MatchString(m[1]) {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundSize}
	}
	return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
}

// classifyCountedBrace handles `for (init; cond; update)` loops. Anything
// else, such as range-based for, is assumed linear.
func (c *Classifier) classifyCountedBrace(header string) Classification {
	inside, ok := parenContents(header)
	if !ok {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
	}
	parts := strings.Split(inside, ";")
	if len(parts) != 3 {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
	}
	init, cond, update := parts[0], parts[1], parts[2]

	// a literal bound caps the iterations whatever the update does
	if c.literalBound.MatchString(cond) && !c.sizeRef.MatchString(init) {
		return Classification{Symbol: complexity.Constant, Bound: models.BoundConstant}
	}
	if v := leadingIdent(update); v != "" && c.geometricUpdate(v).MatchString(update) {
		return Classification{Symbol: complexity.Log, Bound: models.BoundDoubling}
	}
	if c.sizeRef.MatchString(cond) || c.sizeRef.MatchString(init) {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundSize}
	}
	return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
}

// classifyCondition handles while loops of the form `var OP n`.
func (c *Classifier) classifyCondition(header string, following []string) Classification {
	cond, ok := c.condition(header)
	if !ok {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
	}
	m := c.sizeCompare.FindStringSubmatch(strings.TrimSpace(cond))
	if m == nil {
		return Classification{Symbol: complexity.Linear, Bound: models.BoundUnknown}
	}

	update := c.geometricUpdate(m[1])
	// the header itself may carry the body, e.g. `while (i < n) { i *= 2; }`
	if update.MatchString(afterCondition(header, cond)) {
		return Classification{Symbol: complexity.Log, Bound: models.BoundDoubling}
	}
	for _, line := range following {
		if update.MatchString(line) {
			return Classification{Symbol: complexity.Log, Bound: models.BoundDoubling}
		}
	}
	return Classification{Symbol: complexity.Linear, Bound: models.BoundSize}
}

// condition extracts the loop condition from a while header.
func (c *Classifier) condition(header string) (string, bool) {
	if c.braces {
		return parenContents(header)
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "while"))
	if idx := strings.Index(rest, ":"); idx >= 0 {
		return rest[:idx], true
	}
	return rest, rest != ""
}

// geometricUpdate matches assignments that double or halve v.
func (c *Classifier) geometricUpdate(v string) *regexp.Regexp {
	q := regexp.QuoteMeta(v)
	alts := []string{
		`\*=\s*2\b`,
		`=\s*` + q + `\s*\*\s*2\b`,
		`=\s*2\s*\*\s*` + q + `\b`,
		`/=\s*2\b`,
		`=\s*` + q + `\s*/\s*2\b`,
	}
	if c.braces {
		alts = append(alts,
			`<<=\s*1\b`,
			`>>=\s*1\b`,
			`=\s*`+q+`\s*(?:<<|>>)\s*1\b`,
		)
	} else {
		alts = append(alts,
			`//=\s*2\b`,
			`=\s*`+q+`\s*//\s*2\b`,
		)
	}
	return regexp.MustCompile(`\b` + q + `\s*(?:` + strings.Join(alts, "|") + `)`)
}

// parenContents returns the text inside the first balanced parenthesis pair.
func parenContents(s string) (string, bool) {
	start := strings.IndexByte(s, '(')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start+1 : i], true
			}
		}
	}
	return "", false
}

// afterCondition returns the part of header that follows cond.
func afterCondition(header, cond string) string {
	idx := strings.Index(header, cond)
	if idx < 0 || cond == "" {
		return ""
	}
	return header[idx+len(cond):]
}

var identPattern = regexp.MustCompile(`^\s*(?:\+\+|--)?\s*([A-Za-z_]\w*)`)

func leadingIdent(s string) string {
	m := identPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
