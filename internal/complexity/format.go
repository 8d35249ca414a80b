package complexity

import "fmt"

// Format maps a symbol to its display string and a short explanation.
func Format(s Symbol) (display, explanation string) {
	display = s.BigO()
	switch s.Kind {
	case KindConstant:
		explanation = "No input-dependent loops detected; constant time complexity."
	case KindLog:
		explanation = "Detected logarithmic loops."
	case KindLinear:
		explanation = "Detected linear loops depending on n."
	case KindLinearLog:
		explanation = "Detected nested loops with linear and logarithmic factors."
	case KindPower:
		explanation = fmt.Sprintf("Detected nested linear loops with depth %d.", s.Exp)
	case KindLogPower:
		explanation = fmt.Sprintf("Detected nested logarithmic loops with depth %d.", s.Exp)
	default:
		explanation = "Detected loops depending on n."
	}
	return display, explanation
}
