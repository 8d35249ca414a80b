package complexity

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a complexity symbol.
type Kind int

const (
	KindConstant Kind = iota
	KindLog
	KindLinear
	KindLinearLog
	KindLogPower
	KindPower
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindLog:
		return "log"
	case KindLinear:
		return "linear"
	case KindLinearLog:
		return "linear_log"
	case KindLogPower:
		return "log_power"
	case KindPower:
		return "power"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and TOON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "constant":
		*k = KindConstant
	case "log":
		*k = KindLog
	case "linear":
		*k = KindLinear
	case "linear_log":
		*k = KindLinearLog
	case "log_power":
		*k = KindLogPower
	case "power":
		*k = KindPower
	default:
		return fmt.Errorf("unknown complexity kind %q", text)
	}
	return nil
}

// Symbol is one value of the closed complexity set. Exp is only meaningful
// for KindPower and KindLogPower and is always >= 2 for those kinds.
type Symbol struct {
	Kind Kind `json:"kind" yaml:"kind"`
	Exp  int  `json:"exponent,omitempty" yaml:"exponent,omitempty"`
}

var (
	Constant  = Symbol{Kind: KindConstant}
	Log       = Symbol{Kind: KindLog}
	Linear    = Symbol{Kind: KindLinear}
	LinearLog = Symbol{Kind: KindLinearLog}
)

// Pow returns n^k, normalizing k < 2 to Linear or Constant.
func Pow(k int) Symbol {
	switch {
	case k <= 0:
		return Constant
	case k == 1:
		return Linear
	default:
		return Symbol{Kind: KindPower, Exp: k}
	}
}

// LogPow returns (log n)^k, normalizing k < 2 to Log or Constant.
func LogPow(k int) Symbol {
	switch {
	case k <= 0:
		return Constant
	case k == 1:
		return Log
	default:
		return Symbol{Kind: KindLogPower, Exp: k}
	}
}

// IsConstant reports whether s contributes no asymptotic factor.
func (s Symbol) IsConstant() bool {
	return s.Kind == KindConstant
}

// String renders the symbol without the O(...) wrapper, e.g. "n^2".
func (s Symbol) String() string {
	switch s.Kind {
	case KindConstant:
		return "1"
	case KindLog:
		return "log n"
	case KindLinear:
		return "n"
	case KindLinearLog:
		return "n log n"
	case KindLogPower:
		return fmt.Sprintf("(log n)^%d", s.Exp)
	case KindPower:
		return fmt.Sprintf("n^%d", s.Exp)
	default:
		return "?"
	}
}

// BigO renders the symbol as "O(...)".
func (s Symbol) BigO() string {
	return "O(" + s.String() + ")"
}
