// Package blocks holds the line scanners that turn source text into a
// complexity symbol. Each BlockAnalyzer owns one block-detection strategy;
// both share the Classifier and the complexity algebra.
package blocks

import (
	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

// DefaultLookahead is how many lines after a loop header are searched for a
// doubling update.
const DefaultLookahead = 5

// BlockAnalyzer scans the lines of one snippet and returns its combined
// complexity. Implementations hold no state between calls.
type BlockAnalyzer interface {
	Name() string
	Analyze(lines []string) Result
}

// Result is the raw output of a BlockAnalyzer before formatting.
type Result struct {
	Symbol   complexity.Symbol
	Loops    []models.LoopSite
	MaxDepth int
}

// ForLanguage returns the strategy matching lang's block syntax.
func ForLanguage(lang models.Language, opts ...Option) BlockAnalyzer {
	if lang.BraceDelimited() {
		return NewBraceAnalyzer(opts...)
	}
	return NewIndentAnalyzer(opts...)
}

// window returns up to n lines following index i.
func window(lines []string, i, n int) []string {
	start := i + 1
	if start >= len(lines) {
		return nil
	}
	end := min(start+n, len(lines))
	return lines[start:end]
}
