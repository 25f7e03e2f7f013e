// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "testing"

func TestDataTypeClassification(t *testing.T) {
	cases := []struct {
		name             string
		dt               DataType
		scalar, vec, mat bool
	}{
		{"Bool", Bool, true, false, false},
		{"Float4", Float4, false, true, false},
		{"Float4x4", Float4x4, false, false, true},
		{"Int2x3", Int2x3, false, false, true},
	}
	for _, c := range cases {
		if got := c.dt.IsScalar(); got != c.scalar {
			t.Errorf("%s.IsScalar() = %v, want %v", c.name, got, c.scalar)
		}
		if got := c.dt.IsVector(); got != c.vec {
			t.Errorf("%s.IsVector() = %v, want %v", c.name, got, c.vec)
		}
		if got := c.dt.IsMatrix(); got != c.mat {
			t.Errorf("%s.IsMatrix() = %v, want %v", c.name, got, c.mat)
		}
	}
}

func TestBaseDataType(t *testing.T) {
	cases := map[DataType]DataType{
		Float:     Float,
		Float4:    Float,
		Float4x4:  Float,
		Int3:      Int,
		Bool2x3:   Bool,
	}
	for in, want := range cases {
		if got := BaseDataType(in); got != want {
			t.Errorf("BaseDataType(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestVectorDataType(t *testing.T) {
	if got := VectorDataType(Float, 1); got != Float {
		t.Errorf("VectorDataType(Float, 1) = %v, want Float", got)
	}
	if got := VectorDataType(Float, 4); got != Float4 {
		t.Errorf("VectorDataType(Float, 4) = %v, want Float4", got)
	}
	if got := VectorDataType(Int, 3); got != Int3 {
		t.Errorf("VectorDataType(Int, 3) = %v, want Int3", got)
	}
	if got := VectorDataType(Float, 5); got != Void {
		t.Errorf("VectorDataType(Float, 5) = %v, want Void", got)
	}
}

func TestMatrixDataType(t *testing.T) {
	if got := MatrixDataType(Float, 1, 1); got != Float {
		t.Errorf("MatrixDataType(Float,1,1) = %v, want Float", got)
	}
	if got := MatrixDataType(Float, 1, 3); got != Float3 {
		t.Errorf("MatrixDataType(Float,1,3) = %v, want Float3", got)
	}
	if got := MatrixDataType(Float, 4, 4); got != Float4x4 {
		t.Errorf("MatrixDataType(Float,4,4) = %v, want Float4x4", got)
	}
	if got := MatrixDataType(Int, 2, 3); got != Int2x3 {
		t.Errorf("MatrixDataType(Int,2,3) = %v, want Int2x3", got)
	}
}

func TestVectorSizeAndMatrixDims(t *testing.T) {
	if got := VectorSize(Float3); got != 3 {
		t.Errorf("VectorSize(Float3) = %d, want 3", got)
	}
	if got := VectorSize(Float); got != 0 {
		t.Errorf("VectorSize(Float) = %d, want 0", got)
	}
	rows, cols := MatrixDims(Float3x2)
	if rows != 3 || cols != 2 {
		t.Errorf("MatrixDims(Float3x2) = (%d,%d), want (3,2)", rows, cols)
	}
	rows, cols = MatrixDims(Float4)
	if rows != 0 || cols != 0 {
		t.Errorf("MatrixDims(Float4) = (%d,%d), want (0,0)", rows, cols)
	}
}

func TestDoubleToFloat(t *testing.T) {
	cases := map[DataType]DataType{
		Double:    Float,
		Double3:   Float3,
		Double2x2: Float2x2,
		Int3:      Int3,
	}
	for in, want := range cases {
		if got := DoubleToFloat(in); got != want {
			t.Errorf("DoubleToFloat(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestTypeDenoterPredicates(t *testing.T) {
	scalar := TypeDenoter{Tag: DenoterBase, Base: Float}
	vec := TypeDenoter{Tag: DenoterBase, Base: Float4}
	mat := TypeDenoter{Tag: DenoterBase, Base: Float4x4}
	void := TypeDenoter{Tag: DenoterVoid}

	if !scalar.IsScalar() || scalar.IsVector() || scalar.IsMatrix() {
		t.Error("scalar denoter classified incorrectly")
	}
	if !vec.IsVector() || vec.IsScalar() {
		t.Error("vector denoter classified incorrectly")
	}
	if !mat.IsMatrix() || mat.IsVector() {
		t.Error("matrix denoter classified incorrectly")
	}
	if void.IsScalar() || void.IsVector() || void.IsMatrix() {
		t.Error("void denoter should classify as none of scalar/vector/matrix")
	}
}

func TestTypeDenoterAliasResolution(t *testing.T) {
	spec := &TypeSpecifier{Name: "int", Resolved: TypeDenoter{Tag: DenoterBase, Base: Int}}
	alias := &AliasDecl{Name: "MyInt", Type: spec}
	denoter := TypeDenoter{Tag: DenoterAlias, AliasRef: alias}
	resolved := denoter.resolveAlias()
	if resolved.Tag != DenoterBase || resolved.Base != Int {
		t.Errorf("resolveAlias() through alias = %+v, want base Int", resolved)
	}
}
