package models

import "bigocheck/internal/complexity"

type LoopKind string

const (
	LoopFor   LoopKind = "for"
	LoopWhile LoopKind = "while"
)

// BoundKind records why a loop was classified the way it was.
type BoundKind string

const (
	BoundUnknown  BoundKind = "unknown"  // unrecognized bound, assumed input-dependent
	BoundConstant BoundKind = "constant" // literal integer bound
	BoundSize     BoundKind = "size"     // compared against the size variable
	BoundDoubling BoundKind = "doubling" // geometric update of the loop variable
)

// LoopSite is one detected loop occurrence.
type LoopSite struct {
	Line   int               `json:"line"`
	Kind   LoopKind          `json:"kind"`
	Symbol complexity.Symbol `json:"symbol"`
	Bound  BoundKind         `json:"bound"`
	Depth  int               `json:"depth"`
	Header string            `json:"header"`
}

// Estimate is the rendered result of one estimator call.
type Estimate struct {
	Language    Language          `json:"language"`
	Symbol      complexity.Symbol `json:"symbol"`
	Complexity  string            `json:"complexity"`
	Explanation string            `json:"explanation"`
	Loops       []LoopSite        `json:"loops"`
	MaxDepth    int               `json:"max_depth"`
	Valid       bool              `json:"valid"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}
