package complexity

// Multiply combines the factors of two nested loops.
//
// Anything the table cannot express exactly,
// such as LinearLog * Linear, collapses to n^2.
func Multiply(a, b Symbol) Symbol {
	if a.IsConstant() {
		return b
	}
	if b.IsConstant() {
		return a
	}
	// order the pair so each case below only has to be written once
	if b.Kind < a.Kind {
		a, b = b, a
	}

	switch {
	case a.Kind == KindLog && b.Kind == KindLog:
		return LogPow(2)
	case a.Kind == KindLog && b.Kind == KindLinear:
		return LinearLog
	case a.Kind == KindLinear && b.Kind == KindLinear:
		return Pow(2)
	case a.Kind == KindLinear && b.Kind == KindPower:
		return Pow(b.Exp + 1)
	case a.Kind == KindLog && b.Kind == KindLogPower:
		return LogPow(b.Exp + 1)
	default:
		return Pow(2)
	}
}

// Product folds Multiply over xs. Constant entries are skipped and an empty
// product is Constant.
func Product(xs ...Symbol) Symbol {
	acc := Constant
	for _, x := range xs {
		if x.IsConstant() {
			continue
		}
		acc = Multiply(acc, x)
	}
	return acc
}

// rank orders kinds for Compare. LogPower sits between LinearLog and Power.
func rank(k Kind) int {
	switch k {
	case KindConstant:
		return 0
	case KindLog:
		return 1
	case KindLinear:
		return 2
	case KindLinearLog:
		return 3
	case KindLogPower:
		return 4
	case KindPower:
		return 5
	default:
		return -1
	}
}

// Compare returns -1, 0 or 1 following
// Constant < Log < Linear < LinearLog < LogPower(k) < Power(k),
// with equal kinds ordered by exponent.
func Compare(a, b Symbol) int {
	ra, rb := rank(a.Kind), rank(b.Kind)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	case a.Exp < b.Exp:
		return -1
	case a.Exp > b.Exp:
		return 1
	default:
		return 0
	}
}

// Max returns the dominant symbol of a set of sequential loops. An empty set
// is Constant.
func Max(xs ...Symbol) Symbol {
	best := Constant
	for _, x := range xs {
		if Compare(x, best) > 0 {
			best = x
		}
	}
	return best
}
