package analyzer

import (
	"fmt"

	"bigocheck/internal/complexity"
	"bigocheck/internal/models"
)

var nestedLoopSuggestions = []string{
	"Consider using a hash map or set for O(1) lookups instead of nested iteration",
	"Pre-process data into a more efficient structure (e.g., sorting or a lookup table)",
	"Use algorithms like binary search or two pointers if data is sorted",
	"Consider if you can break/continue early to reduce iterations",
	"Profile this code section to measure actual performance impact",
}

// issuesFor turns one estimate into report issues. Linear and cheaper results
// raise nothing.
func issuesFor(file string, est models.Estimate) []models.Issue {
	if !est.Valid {
		return []models.Issue{{
			Type:       models.IssueLanguageMismatch,
			Severity:   models.SeverityLow,
			File:       file,
			Line:       1,
			Message:    fmt.Sprintf("Source does not look like %s code; no estimate was made", est.Language.DisplayName()),
			Suggestion: "Check the file extension or pass --language explicitly",
			Complexity: est.Complexity,
		}}
	}

	site, ok := deepestLoop(est)
	if !ok {
		return nil
	}

	sym := est.Symbol
	switch sym.Kind {
	case complexity.KindPower:
		return []models.Issue{{
			Type:       models.IssueNestedLoops,
			Severity:   nestedSeverity(sym.Exp),
			File:       file,
			Line:       site.Line,
			Message:    nestedMessage(sym),
			Suggestion: nestedSuggestion(sym.Exp),
			Complexity: sym.BigO(),
			Snippet:    site.Header,
		}}
	case complexity.KindLinearLog, complexity.KindLogPower:
		return []models.Issue{{
			Type:       models.IssueSuperlinear,
			Severity:   models.SeverityLow,
			File:       file,
			Line:       site.Line,
			Message:    fmt.Sprintf("Nested loops with a logarithmic factor - %s complexity", sym.BigO()),
			Suggestion: "Usually acceptable. Check whether the inner search can be replaced by a precomputed lookup",
			Complexity: sym.BigO(),
			Snippet:    site.Header,
		}}
	default:
		return nil
	}
}

func nestedSeverity(exp int) models.Severity {
	switch exp {
	case 2:
		return models.SeverityMedium // O(n²) is concerning but common
	case 3:
		return models.SeverityHigh // O(n³) is usually problematic
	default:
		return models.SeverityCritical // O(n⁴+) is almost always wrong
	}
}

func nestedMessage(sym complexity.Symbol) string {
	if sym.Exp == 2 {
		return "Nested loop detected - potential O(n²) complexity"
	}
	return fmt.Sprintf("Deeply nested loops detected - %s complexity", sym.BigO())
}

func nestedSuggestion(exp int) string {
	if exp == 2 {
		return nestedLoopSuggestions[0] + ". " + nestedLoopSuggestions[1]
	}
	return nestedLoopSuggestions[2] + ". " + nestedLoopSuggestions[4]
}

// deepestLoop picks the first loop at the maximum nesting depth, which is
// where the issue gets reported.
func deepestLoop(est models.Estimate) (models.LoopSite, bool) {
	for _, site := range est.Loops {
		if site.Depth == est.MaxDepth {
			return site, true
		}
	}
	return models.LoopSite{}, false
}
