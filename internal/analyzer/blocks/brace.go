package blocks

import (
	"regexp"
	"strings"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// an optional label, as in `outer: for (...)`, may precede the keyword
var braceLoopPattern = regexp.MustCompile(`^(?:[A-Za-z_]\w*\s*:\s*)?(for|while)\s*\(`)

// BraceAnalyzer tracks loops in brace-delimited source. Every loop body gets
// a frame; loops directly inside one body multiply, and the loops left at the
// top level are sequential and combine by max.
type BraceAnalyzer struct {
	classifier *Classifier
}

func NewBraceAnalyzer(opts ...Option) *BraceAnalyzer {
	return &BraceAnalyzer{classifier: NewClassifier(true, opts...)}
}

func (a *BraceAnalyzer) Name() string {
	return "Brace Block Analyzer"
}

func (a *BraceAnalyzer) Analyze(lines []string) Result {
	s := &braceScan{frames: []braceFrame{{}}}
	var result Result

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !s.inBlockComment {
			if m := braceLoopPattern.FindStringSubmatch(trimmed); m != nil {
				kind := models.LoopKind(m[1])
				header := joinHeader(trimmed, lines, i, a.classifier.Lookahead())
				verdict := a.classifier.Classify(kind, header, window(lines, i, a.classifier.Lookahead()))

				s.openLoop(verdict.Symbol)
				depth := s.loopDepth()
				result.MaxDepth = max(result.MaxDepth, depth)
				result.Loops = append(result.Loops, models.LoopSite{
					Line:   i + 1,
					Kind:   kind,
					Symbol: verdict.Symbol,
					Bound:  verdict.Bound,
					Depth:  depth,
					Header: trimmed,
				})
			}
		}

		s.scanLine(trimmed)
	}

	for len(s.frames) > 1 {
		s.closeLoop()
	}
	result.Symbol = complexity.Max(s.frames[0].symbols...)
	return result
}

// braceFrame is one loop body, or the root frame at index 0.
type braceFrame struct {
	symbols  []complexity.Symbol
	loop     bool
	awaiting bool // header seen, body's '{' not yet
	open     int  // non-loop blocks currently open inside this body
}

type braceScan struct {
	frames         []braceFrame
	parens         int
	inBlockComment bool
}

func (s *braceScan) top() *braceFrame {
	return &s.frames[len(s.frames)-1]
}

func (s *braceScan) loopDepth() int {
	return len(s.frames) - 1
}

// openLoop records a loop in the current frame and opens its body frame.
func (s *braceScan) openLoop(sym complexity.Symbol) {
	top := s.top()
	top.symbols = append(top.symbols, sym)
	s.frames = append(s.frames, braceFrame{loop: true, awaiting: true})
}

// closeLoop folds the innermost body into the loop that owns it. A parent
// loop still waiting for its body had this loop as its single statement, so
// it closes as well.
func (s *braceScan) closeLoop() {
	body := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	inner := complexity.Product(body.symbols...)

	parent := s.top()
	if n := len(parent.symbols); n == 0 {
		parent.symbols = append(parent.symbols, inner)
	} else {
		parent.symbols[n-1] = complexity.Multiply(parent.symbols[n-1], inner)
	}

	if parent.loop && parent.awaiting {
		s.closeLoop()
	}
}

// scanLine walks the block tokens of one line, skipping literals and
// comments.
func (s *braceScan) scanLine(line string) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]

		if s.inBlockComment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inBlockComment = false
				i++
			}
			continue
		}
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '/':
			if i+1 < len(line) {
				switch line[i+1] {
				case '/':
					return
				case '*':
					s.inBlockComment = true
					i++
				}
			}
		case '(':
			s.parens++
		case ')':
			if s.parens > 0 {
				s.parens--
			}
		case '{':
			s.openBrace()
		case '}':
			s.closeBrace()
		case ';':
			if s.parens == 0 && s.top().awaiting {
				s.closeLoop()
			}
		}
	}
}

func (s *braceScan) openBrace() {
	top := s.top()
	if top.awaiting && s.parens == 0 {
		top.awaiting = false
		return
	}
	top.open++
}

func (s *braceScan) closeBrace() {
	for {
		top := s.top()
		switch {
		case top.open > 0:
			top.open--
			return
		case top.loop && top.awaiting:
			// a braceless loop whose statement never ended; drop it and let
			// the brace close the enclosing block
			s.closeLoop()
			continue
		case top.loop:
			s.closeLoop()
			return
		default:
			// stray brace at the root
			return
		}
	}
}

// joinHeader extends a loop header over following lines until its
// parentheses balance, so multi-line for clauses classify correctly.
func joinHeader(header string, lines []string, i, limit int) string {
	depth := strings.Count(header, "(") - strings.Count(header, ")")
	if depth <= 0 {
		return header
	}
	var b strings.Builder
	b.WriteString(header)
	for _, next := range window(lines, i, limit) {
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(next))
		depth += strings.Count(next, "(") - strings.Count(next, ")")
		if depth <= 0 {
			break
		}
	}
	return b.String()
}
