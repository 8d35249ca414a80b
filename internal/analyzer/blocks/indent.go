package blocks

import (
	"regexp"
	"strings"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

var indentLoopPattern = regexp.MustCompile(`^(for|while)\b`)

// IndentAnalyzer tracks loops in indentation-delimited source.
//
// Only the loops still open when the scan ends are folded into the result,
// so a loop that is closed by a later dedent no longer counts. This differs
// from BraceAnalyzer, which keeps every top-level loop and takes the max.
type IndentAnalyzer struct {
	classifier *Classifier
}

func NewIndentAnalyzer(opts ...Option) *IndentAnalyzer {
	return &IndentAnalyzer{classifier: NewClassifier(false, opts...)}
}

func (a *IndentAnalyzer) Name() string {
	return "Indentation Block Analyzer"
}

type indentFrame struct {
	column int
	symbol complexity.Symbol
}

func (a *IndentAnalyzer) Analyze(lines []string) Result {
	var (
		stack  []indentFrame
		result Result
	)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		column := indentColumn(line)
		for len(stack) > 0 && stack[len(stack)-1].column >= column {
			stack = stack[:len(stack)-1]
		}

		m := indentLoopPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		kind := models.LoopKind(m[1])
		verdict := a.classifier.Classify(kind, trimmed, window(lines, i, a.classifier.Lookahead()))

		stack = append(stack, indentFrame{column: column, symbol: verdict.Symbol})
		result.MaxDepth = max(result.MaxDepth, len(stack))
		result.Loops = append(result.Loops, models.LoopSite{
			Line:   i + 1,
			Kind:   kind,
			Symbol: verdict.Symbol,
			Bound:  verdict.Bound,
			Depth:  len(stack),
			Header: trimmed,
		})
	}

	open := make([]complexity.Symbol, len(stack))
	for i, f := range stack {
		open[i] = f.symbol
	}
	result.Symbol = complexity.Product(open...)
	return result
}

// indentColumn counts leading spaces and tabs, one column each.
func indentColumn(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
