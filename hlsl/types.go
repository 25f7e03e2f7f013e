// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"
)

// DataType enumerates the closed grid of base/vector/matrix scalar types,
// laid out so arithmetic conversions (spec.md 4.1) are index arithmetic
// rather than table lookups: scalars occupy [Bool..Double], vectors
// [Bool2..Double4] in row-major (base x size) order, matrices
// [Bool2x2..Double4x4] in (base x rows x cols) order.
//
// Grounded on the *shape* of the teacher's ir.ScalarType / ir.VectorType /
// ir.MatrixType (three separate structs keyed by kind+width), collapsed here
// into one arithmetic enum because spec.md 3.4/4.1 explicitly requires a
// single enum "whose numerical layout permits arithmetic conversions".
type DataType int

const (
	Void DataType = iota
	Bool
	Int
	UInt
	Half
	Float
	Double
	Bool2
	Bool3
	Bool4
	Int2
	Int3
	Int4
	UInt2
	UInt3
	UInt4
	Half2
	Half3
	Half4
	Float2
	Float3
	Float4
	Double2
	Double3
	Double4
	Bool2x2
	Bool2x3
	Bool2x4
	Bool3x2
	Bool3x3
	Bool3x4
	Bool4x2
	Bool4x3
	Bool4x4
	Int2x2
	Int2x3
	Int2x4
	Int3x2
	Int3x3
	Int3x4
	Int4x2
	Int4x3
	Int4x4
	UInt2x2
	UInt2x3
	UInt2x4
	UInt3x2
	UInt3x3
	UInt3x4
	UInt4x2
	UInt4x3
	UInt4x4
	Half2x2
	Half2x3
	Half2x4
	Half3x2
	Half3x3
	Half3x4
	Half4x2
	Half4x3
	Half4x4
	Float2x2
	Float2x3
	Float2x4
	Float3x2
	Float3x3
	Float3x4
	Float4x2
	Float4x3
	Float4x4
	Double2x2
	Double2x3
	Double2x4
	Double3x2
	Double3x3
	Double3x4
	Double4x2
	Double4x3
	Double4x4

	numDataTypes
)

const (
	numBases  = 6 // Bool, Int, UInt, Half, Float, Double
	firstBase = Bool
	firstVec  = Bool2
	firstMat  = Bool2x2
)

var baseNames = [numBases]string{"bool", "int", "uint", "half", "float", "double"}

// IsScalar reports whether t is one of the six base scalar types.
func (t DataType) IsScalar() bool { return t >= firstBase && t < firstVec }

// IsVector reports whether t is a vector type (size 2, 3, or 4).
func (t DataType) IsVector() bool { return t >= firstVec && t < firstMat }

// IsMatrix reports whether t is a matrix type.
func (t DataType) IsMatrix() bool { return t >= firstMat && t < numDataTypes }

// IsIntegral reports whether t's base component is Bool, Int, or UInt.
func (t DataType) IsIntegral() bool {
	b := BaseDataType(t)
	return b == Bool || b == Int || b == UInt
}

// IsReal reports whether t's base component is a floating-point type.
func (t DataType) IsReal() bool {
	b := BaseDataType(t)
	return b == Half || b == Float || b == Double
}

// IsBoolean reports whether t's base component is Bool.
func (t DataType) IsBoolean() bool { return BaseDataType(t) == Bool }

// baseIndex returns 0..5 for t's scalar base component.
func baseIndex(t DataType) int {
	switch {
	case t.IsScalar():
		return int(t - firstBase)
	case t.IsVector():
		return int(t-firstVec) / 3
	case t.IsMatrix():
		return int(t-firstMat) / 9
	default:
		return -1
	}
}

// BaseDataType strips vector/matrix shape, returning the scalar component
// type. Implements spec.md 4.1's "locate t in its row, subtract offset".
func BaseDataType(t DataType) DataType {
	idx := baseIndex(t)
	if idx < 0 {
		return Void
	}
	return firstBase + DataType(idx)
}

// VectorDataType returns the n-component vector of base (n=1 returns base
// itself). Implements spec.md 4.1: "if n=1 return base; else
// Bool2 + (base-Bool)*3 + (n-2)".
func VectorDataType(base DataType, n int) DataType {
	if !base.IsScalar() {
		return Void
	}
	if n == 1 {
		return base
	}
	if n < 1 || n > 4 {
		return Void
	}
	return firstVec + DataType(int(base-firstBase)*3+(n-2))
}

// MatrixDataType returns the r-by-c matrix of base. 1x1 collapses to the
// scalar base; 1xc or rx1 collapses to a vector; otherwise spec.md 4.1's
// "Bool2x2 + (base-Bool)*9 + (r-2)*3 + (c-2)".
func MatrixDataType(base DataType, r, c int) DataType {
	if !base.IsScalar() {
		return Void
	}
	switch {
	case r == 1 && c == 1:
		return base
	case r == 1:
		return VectorDataType(base, c)
	case c == 1:
		return VectorDataType(base, r)
	case r < 1 || r > 4 || c < 1 || c > 4:
		return Void
	default:
		return firstMat + DataType(int(base-firstBase)*9+(r-2)*3+(c-2))
	}
}

// VectorSize returns the component count of a vector type (2, 3, or 4), or 0
// if t is not a vector.
func VectorSize(t DataType) int {
	if !t.IsVector() {
		return 0
	}
	return int(t-firstVec)%3 + 2
}

// MatrixDims returns (rows, cols) for a matrix type, or (0, 0) if t is not a
// matrix.
func MatrixDims(t DataType) (rows, cols int) {
	if !t.IsMatrix() {
		return 0, 0
	}
	rem := int(t - firstMat)
	rem %= 9
	return rem/3 + 2, rem%3 + 2
}

// DoubleToFloat narrows every double-based shape (scalar, vector, matrix) to
// its float equivalent; non-double types pass through unchanged.
func DoubleToFloat(t DataType) DataType {
	if BaseDataType(t) != Double {
		return t
	}
	switch {
	case t.IsScalar():
		return Float
	case t.IsVector():
		return VectorDataType(Float, VectorSize(t))
	case t.IsMatrix():
		r, c := MatrixDims(t)
		return MatrixDataType(Float, r, c)
	default:
		return t
	}
}

// String renders the HLSL spelling of t (e.g. "float3x4", "uint2").
func (t DataType) String() string {
	switch {
	case t == Void:
		return "void"
	case t.IsScalar():
		return baseNames[baseIndex(t)]
	case t.IsVector():
		return fmt.Sprintf("%s%d", baseNames[baseIndex(t)], VectorSize(t))
	case t.IsMatrix():
		r, c := MatrixDims(t)
		return fmt.Sprintf("%s%dx%d", baseNames[baseIndex(t)], r, c)
	default:
		return "<invalid-type>"
	}
}

// LookupBuiltinType parses an HLSL scalar/vector/matrix type name (e.g.
// "float", "float3", "float3x4", "int1") into a DataType. HLSL type names
// are ordinary identifiers, not a fixed lexical token set (the combinatorics
// of 6 bases x 16 shapes make per-shape keywords impractical) — this mirrors
// how a real HLSL front end recognizes them from plain identifier text.
func LookupBuiltinType(name string) (DataType, bool) {
	for i, b := range baseNames {
		if !strings.HasPrefix(name, b) {
			continue
		}
		rest := name[len(b):]
		base := firstBase + DataType(i)
		switch {
		case rest == "":
			return base, true
		case len(rest) == 1 && rest[0] >= '1' && rest[0] <= '4':
			n := int(rest[0] - '0')
			return VectorDataType(base, n), true
		case len(rest) == 3 && rest[1] == 'x' && rest[0] >= '1' && rest[0] <= '4' && rest[2] >= '1' && rest[2] <= '4':
			return MatrixDataType(base, int(rest[0]-'0'), int(rest[2]-'0')), true
		}
	}
	return Void, false
}

// SubscriptDataType validates and resolves a swizzle or matrix subscript
// chain (spec.md 3.4/4.3):
//   - vector swizzles against "xyzw"/"rgba" (no mixing across the two sets)
//   - a matrix subscript as one zero-based "_mRC" or one-based "_RC" token;
//     a chain of several tokens (e.g. "_m00_m11") is rejected as malformed
func SubscriptDataType(t DataType, text string) (DataType, error) {
	if t.IsVector() {
		return swizzleDataType(t, text)
	}
	if t.IsMatrix() {
		return matrixSubscriptDataType(t, text)
	}
	return Void, fmt.Errorf("cannot subscript non-vector, non-matrix type %s", t)
}

var xyzwSet = "xyzw"
var rgbaSet = "rgba"

func swizzleDataType(t DataType, text string) (DataType, error) {
	if len(text) == 0 || len(text) > 4 {
		return Void, fmt.Errorf("invalid swizzle %q", text)
	}
	size := VectorSize(t)
	var set string
	switch text[0] {
	case 'x', 'y', 'z', 'w':
		set = xyzwSet
	case 'r', 'g', 'b', 'a':
		set = rgbaSet
	default:
		return Void, fmt.Errorf("invalid swizzle component %q", text[0:1])
	}
	for _, ch := range text {
		idx := strings.IndexRune(set, ch)
		if idx < 0 {
			return Void, fmt.Errorf("swizzle %q mixes component sets", text)
		}
		if idx >= size {
			return Void, fmt.Errorf("swizzle %q out of range for %s", text, t)
		}
	}
	return VectorDataType(BaseDataType(t), len(text)), nil
}

// matrixSubscriptDataType handles single-component "_mRC"/"_RC" accesses.
// It validates and resolves exactly one "_mRC" or "_RC" token, and
// SubscriptDataType passes it the whole subscript text, so a multi-component
// matrix swizzle (_m00_m11) is rejected as malformed.
func matrixSubscriptDataType(t DataType, text string) (DataType, error) {
	rows, cols := MatrixDims(t)
	r, c, zeroBased, err := parseMatrixComponent(text)
	if err != nil {
		return Void, err
	}
	if zeroBased {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return Void, fmt.Errorf("matrix subscript %q out of range for %s", text, t)
		}
	} else {
		if r < 1 || r > rows || c < 1 || c > cols {
			return Void, fmt.Errorf("matrix subscript %q out of range for %s", text, t)
		}
	}
	return BaseDataType(t), nil
}

// BufferType enumerates HLSL buffer/texture object kinds (31 variants —
// Buffer, the structured and byte-address buffers, the texture
// dimensionalities with their RW, array and MS variants, plus patch,
// stream, constant-buffer and shadow-texture variants).
type BufferType uint8

const (
	BufferGeneric BufferType = iota
	BufferStructured
	BufferRWStructured
	BufferAppendStructured
	BufferConsumeStructured
	BufferByteAddress
	BufferRWByteAddress

	BufferTexture1D
	BufferRWTexture1D
	BufferTexture1DArray
	BufferRWTexture1DArray

	BufferTexture2D
	BufferRWTexture2D
	BufferTexture2DArray
	BufferRWTexture2DArray
	BufferTexture2DMS
	BufferTexture2DMSArray

	BufferTexture3D
	BufferRWTexture3D

	BufferTextureCube
	BufferTextureCubeArray

	BufferInputPatch
	BufferOutputPatch

	BufferPointStream
	BufferLineStream
	BufferTriangleStream

	BufferConstant

	BufferTexture1DShadow
	BufferTexture2DShadow
	BufferTextureCubeShadow
	BufferTexture2DArrayShadow
)

var bufferTypeNames = map[BufferType]string{
	BufferGeneric:              "Buffer",
	BufferStructured:           "StructuredBuffer",
	BufferRWStructured:         "RWStructuredBuffer",
	BufferAppendStructured:     "AppendStructuredBuffer",
	BufferConsumeStructured:    "ConsumeStructuredBuffer",
	BufferByteAddress:          "ByteAddressBuffer",
	BufferRWByteAddress:        "RWByteAddressBuffer",
	BufferTexture1D:            "Texture1D",
	BufferRWTexture1D:          "RWTexture1D",
	BufferTexture1DArray:       "Texture1DArray",
	BufferRWTexture1DArray:     "RWTexture1DArray",
	BufferTexture2D:            "Texture2D",
	BufferRWTexture2D:          "RWTexture2D",
	BufferTexture2DArray:       "Texture2DArray",
	BufferRWTexture2DArray:     "RWTexture2DArray",
	BufferTexture2DMS:          "Texture2DMS",
	BufferTexture2DMSArray:     "Texture2DMSArray",
	BufferTexture3D:            "Texture3D",
	BufferRWTexture3D:          "RWTexture3D",
	BufferTextureCube:          "TextureCube",
	BufferTextureCubeArray:     "TextureCubeArray",
	BufferInputPatch:           "InputPatch",
	BufferOutputPatch:          "OutputPatch",
	BufferPointStream:          "PointStream",
	BufferLineStream:           "LineStream",
	BufferTriangleStream:       "TriangleStream",
	BufferConstant:             "ConstantBuffer",
	BufferTexture1DShadow:      "Texture1DShadow",
	BufferTexture2DShadow:      "Texture2DShadow",
	BufferTextureCubeShadow:    "TextureCubeShadow",
	BufferTexture2DArrayShadow: "Texture2DArrayShadow",
}

func (b BufferType) String() string {
	if name, ok := bufferTypeNames[b]; ok {
		return name
	}
	return "UnknownBuffer"
}

var bufferTypesByName = func() map[string]BufferType {
	m := make(map[string]BufferType, len(bufferTypeNames))
	for k, v := range bufferTypeNames {
		m[v] = k
	}
	return m
}()

// LookupBufferType resolves a buffer/texture object type name to its
// BufferType, used by the parser when it meets an identifier it doesn't
// recognize as a built-in scalar type.
func LookupBufferType(name string) (BufferType, bool) {
	t, ok := bufferTypesByName[name]
	return t, ok
}

// SamplerType enumerates HLSL sampler object kinds.
type SamplerType uint8

const (
	SamplerState SamplerType = iota
	SamplerComparisonState
)

func (s SamplerType) String() string {
	if s == SamplerComparisonState {
		return "SamplerComparisonState"
	}
	return "SamplerState"
}

// LookupSamplerType resolves a sampler object type name.
func LookupSamplerType(name string) (SamplerType, bool) {
	switch name {
	case "SamplerState":
		return SamplerState, true
	case "SamplerComparisonState":
		return SamplerComparisonState, true
	default:
		return 0, false
	}
}

// TypeDenoterTag discriminates the TypeDenoter variants (spec.md 3.4).
type TypeDenoterTag uint8

const (
	DenoterVoid TypeDenoterTag = iota
	DenoterBase
	DenoterBuffer
	DenoterSampler
	DenoterStruct
	DenoterAlias
	DenoterArray
)

// TypeDenoter is the tagged union describing the semantic type of an
// expression or declaration. Struct/Alias hold non-owning back-references
// resolved during binding; Array wraps an element denoter with one level of
// array dimensions (binding turns a multi-dimensional array into nested
// Array denoters, the first declared dimension outermost).
type TypeDenoter struct {
	Tag        TypeDenoterTag
	Base       DataType
	BufferKind BufferType
	BufferElem *TypeDenoter
	SamplerKind SamplerType
	StructRef  *StructDecl
	AliasRef   *AliasDecl
	ElemType   *TypeDenoter
	ArrayDims  []int // 0 marks a dynamic dimension
}

// IsScalar, IsVector, IsMatrix, IsIntegral, IsReal, IsBoolean on TypeDenoter
// delegate to the underlying DataType for Base denoters and resolve through
// Alias transparently; they report false for every other tag.
func (t TypeDenoter) resolveAlias() TypeDenoter {
	for t.Tag == DenoterAlias && t.AliasRef != nil && t.AliasRef.Type != nil {
		t = t.AliasRef.Type.Resolved
	}
	return t
}

func (t TypeDenoter) IsScalar() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsScalar()
}

func (t TypeDenoter) IsVector() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsVector()
}

func (t TypeDenoter) IsMatrix() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsMatrix()
}

func (t TypeDenoter) IsIntegral() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsIntegral()
}

func (t TypeDenoter) IsReal() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsReal()
}

func (t TypeDenoter) IsBoolean() bool {
	r := t.resolveAlias()
	return r.Tag == DenoterBase && r.Base.IsBoolean()
}

// String renders a human-readable spelling, used in diagnostics.
func (t TypeDenoter) String() string {
	switch t.Tag {
	case DenoterVoid:
		return "void"
	case DenoterBase:
		return t.Base.String()
	case DenoterBuffer:
		if t.BufferElem != nil {
			return t.BufferKind.String() + "<" + t.BufferElem.String() + ">"
		}
		return t.BufferKind.String()
	case DenoterSampler:
		return t.SamplerKind.String()
	case DenoterStruct:
		if t.StructRef != nil {
			return t.StructRef.Name
		}
		return "<struct>"
	case DenoterAlias:
		if t.AliasRef != nil {
			return t.AliasRef.Name
		}
		return "<alias>"
	case DenoterArray:
		suffix := ""
		for _, d := range t.ArrayDims {
			if d == 0 {
				suffix += "[]"
			} else {
				suffix += fmt.Sprintf("[%d]", d)
			}
		}
		if t.ElemType != nil {
			return t.ElemType.String() + suffix
		}
		return "<array>" + suffix
	default:
		return "<invalid>"
	}
}

// TypeDenotersEqual reports whether a and b denote the same type. Needed
// because TypeDenoter embeds a slice (ArrayDims) and so is not comparable
// with ==.
func TypeDenotersEqual(a, b TypeDenoter) bool {
	a, b = a.resolveAlias(), b.resolveAlias()
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case DenoterVoid:
		return true
	case DenoterBase:
		return a.Base == b.Base
	case DenoterBuffer:
		if a.BufferKind != b.BufferKind {
			return false
		}
		if (a.BufferElem == nil) != (b.BufferElem == nil) {
			return false
		}
		if a.BufferElem == nil {
			return true
		}
		return TypeDenotersEqual(*a.BufferElem, *b.BufferElem)
	case DenoterSampler:
		return a.SamplerKind == b.SamplerKind
	case DenoterStruct:
		return a.StructRef == b.StructRef
	case DenoterArray:
		if len(a.ArrayDims) != len(b.ArrayDims) {
			return false
		}
		for i := range a.ArrayDims {
			if a.ArrayDims[i] != b.ArrayDims[i] {
				return false
			}
		}
		if (a.ElemType == nil) != (b.ElemType == nil) {
			return false
		}
		if a.ElemType == nil {
			return true
		}
		return TypeDenotersEqual(*a.ElemType, *b.ElemType)
	default:
		return false
	}
}

// parseMatrixComponent parses one "_mRC" (zero-based) or "_RC" (one-based)
// token and reports which numbering it used, which selects the range check
// matrixSubscriptDataType applies.
func parseMatrixComponent(text string) (row, col int, zeroBased bool, err error) {
	if strings.HasPrefix(text, "_m") && len(text) == 4 {
		row = int(text[2] - '0')
		col = int(text[3] - '0')
		return row, col, true, nil
	}
	if strings.HasPrefix(text, "_") && len(text) == 3 {
		row = int(text[1] - '0')
		col = int(text[2] - '0')
		return row, col, false, nil
	}
	return 0, 0, false, fmt.Errorf("malformed matrix subscript %q", text)
}
