// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl provides HLSL (High-Level Shading Language) lexing, parsing,
// and the typed AST the rest of the xsc pipeline operates on.
package hlsl

import "github.com/gogpu/xsc/diag"

// Position is a single point in source text.
type Position struct {
	Row    uint32
	Col    uint32
	Offset uint32
}

// Area is a source position plus a byte length. Every AST node carries one.
type Area struct {
	Pos    Position
	Length uint32
}

// ToDiag converts an Area to a diag.Area for diagnostic reporting.
func (a Area) ToDiag() *diag.Area {
	return &diag.Area{Row: a.Pos.Row, Col: a.Pos.Col, Offset: a.Pos.Offset, Length: a.Length}
}

// spanTo returns the smallest Area covering both a and b, assuming b starts
// at or after a.
func spanTo(a, b Area) Area {
	end := b.Pos.Offset + b.Length
	return Area{Pos: a.Pos, Length: end - a.Pos.Offset}
}
