// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resolve

import "github.com/gogpu/xsc/hlsl"

// conversionCost ranks how an argument of type from converts to a
// parameter of type to, per spec.md 4.3: "exact > same-base-widening >
// scalar-to-vector-broadcast > numeric-narrowing > incompatible". Lower is
// better; costIncompatible means the call is not viable at all.
type conversionCost int

const (
	costExact conversionCost = iota
	costWidening
	costBroadcast
	costNarrowing
	costIncompatible = 1 << 30
)

// baseRank orders scalar bases from narrowest to widest for widening/
// narrowing classification: Bool < Int < UInt < Half < Float < Double.
func baseRank(b hlsl.DataType) int {
	return int(b - hlsl.Bool)
}

// isIntegralFamily reports whether b is one of the bit-pattern-compatible
// integral bases (Bool/Int/UInt): converting among these reinterprets bits
// rather than losing precision, so it costs less than crossing into the
// floating-point family.
func isIntegralFamily(b hlsl.DataType) bool {
	return b == hlsl.Bool || b == hlsl.Int || b == hlsl.UInt
}

// scalarConversionCost classifies a scalar-to-scalar conversion. Real<->real
// conversions rank by width; integral<->integral conversions always count
// as widening; crossing
// families (e.g. uint->float) is always classified as narrowing, matching
// spec.md 8's overload-resolution example: calling f(int)/f(float) with an
// unsigned literal picks f(int), the lossless same-family conversion, over
// f(float).
func scalarConversionCost(from, to hlsl.DataType) conversionCost {
	fromIntegral, toIntegral := isIntegralFamily(from), isIntegralFamily(to)
	if fromIntegral != toIntegral {
		return costNarrowing
	}
	if fromIntegral {
		return costWidening // Bool/Int/UInt are bit-width-compatible reinterpretations
	}
	if baseRank(to) > baseRank(from) {
		return costWidening
	}
	return costNarrowing
}

func argumentCost(from, to hlsl.TypeDenoter) conversionCost {
	if hlsl.TypeDenotersEqual(from, to) {
		return costExact
	}
	if from.Tag != hlsl.DenoterBase || to.Tag != hlsl.DenoterBase {
		return costIncompatible
	}

	fromScalar, toScalar := from.Base.IsScalar(), to.Base.IsScalar()
	fromBase, toBase := hlsl.BaseDataType(from.Base), hlsl.BaseDataType(to.Base)

	switch {
	case fromScalar && toScalar:
		return scalarConversionCost(fromBase, toBase)
	case fromScalar && !toScalar:
		// Scalar-to-vector/matrix broadcast; base conversion must itself be
		// legal (numeric), matrix shapes aren't broadcast targets here.
		if to.Base.IsMatrix() {
			return costIncompatible
		}
		if baseRank(toBase) >= baseRank(fromBase) {
			return costBroadcast
		}
		return costBroadcast + 1 // narrowing broadcast, still worse
	case from.Base.IsVector() && to.Base.IsVector():
		if hlsl.VectorSize(from.Base) != hlsl.VectorSize(to.Base) {
			return costIncompatible
		}
		if baseRank(toBase) > baseRank(fromBase) {
			return costWidening
		}
		return costNarrowing
	case from.Base.IsMatrix() && to.Base.IsMatrix():
		fr, fc := hlsl.MatrixDims(from.Base)
		tr, tc := hlsl.MatrixDims(to.Base)
		if fr != tr || fc != tc {
			return costIncompatible
		}
		if baseRank(toBase) > baseRank(fromBase) {
			return costWidening
		}
		return costNarrowing
	default:
		return costIncompatible
	}
}

// callCost sums the per-argument cost of calling fn with the given
// positional argument types, extending short calls with default parameter
// values (spec.md 4.3). Returns costIncompatible if arity (after defaults)
// or any single argument is incompatible.
func callCost(fn *hlsl.FunctionDeclStmt, args []hlsl.TypeDenoter) conversionCost {
	if len(args) > len(fn.Params) {
		return costIncompatible
	}
	total := conversionCost(0)
	for i, p := range fn.Params {
		if i < len(args) {
			if p.Type == nil {
				return costIncompatible
			}
			c := argumentCost(args[i], p.Type.Resolved)
			if c >= costIncompatible {
				return costIncompatible
			}
			total += c
			continue
		}
		if p.Default == nil {
			return costIncompatible // missing required argument
		}
	}
	return total
}

// ResolveOverload picks the best-matching overload of candidates for a call
// with the given positional argument types. Returns (fn, true) on an
// unambiguous winner; (nil, false) if no candidate is viable or if the two
// best candidates tie (spec.md 4.3: "ties are errors").
func ResolveOverload(candidates []*hlsl.FunctionDeclStmt, args []hlsl.TypeDenoter) (*hlsl.FunctionDeclStmt, bool) {
	bestCost := conversionCost(costIncompatible)
	var best *hlsl.FunctionDeclStmt
	tie := false

	for _, fn := range candidates {
		c := callCost(fn, args)
		if c >= costIncompatible {
			continue
		}
		switch {
		case c < bestCost:
			bestCost = c
			best = fn
			tie = false
		case c == bestCost:
			tie = true
		}
	}
	if best == nil || tie {
		return nil, false
	}
	return best, true
}
