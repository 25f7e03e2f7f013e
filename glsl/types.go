// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/xsc/hlsl"
)

// glslTypeSampler is the GLSL type name for a generic sampler placeholder.
const glslTypeSampler = "sampler"

// typeDenoterToGLSL returns the GLSL spelling of t's base type, unwrapping
// arrays (use arraySuffix for the trailing "[N]" text). Grounded on the
// teacher's typeInnerToGLSL dispatch (one switch arm per IR type shape);
// TypeDenoter's Tag plays the same role IR's TypeInner interface did.
func (w *Writer) typeDenoterToGLSL(t hlsl.TypeDenoter) string {
	switch t.Tag {
	case hlsl.DenoterVoid:
		return "void"
	case hlsl.DenoterBase:
		return dataTypeToGLSL(t.Base)
	case hlsl.DenoterBuffer:
		return bufferTypeToGLSL(t)
	case hlsl.DenoterSampler:
		return glslTypeSampler
	case hlsl.DenoterStruct:
		if t.StructRef != nil {
			return escapeKeyword(t.StructRef.Name)
		}
		return "void"
	case hlsl.DenoterAlias:
		if t.AliasRef != nil && t.AliasRef.Type != nil {
			return w.typeDenoterToGLSL(t.AliasRef.Type.Resolved)
		}
		return "void"
	case hlsl.DenoterArray:
		if t.ElemType != nil {
			return w.typeDenoterToGLSL(*t.ElemType)
		}
		return "void"
	default:
		return "void"
	}
}

// arraySuffix returns the "[N]"/"[]" trailing text for an (possibly nested)
// array denoter, or "" for a non-array.
func arraySuffix(t hlsl.TypeDenoter) string {
	if t.Tag != hlsl.DenoterArray {
		return ""
	}
	suffix := ""
	for _, d := range t.ArrayDims {
		if d == 0 {
			suffix += "[]"
		} else {
			suffix += fmt.Sprintf("[%d]", d)
		}
	}
	if t.ElemType != nil {
		suffix += arraySuffix(*t.ElemType)
	}
	return suffix
}

// dataTypeToGLSL maps one DataType across the full base x shape grid to its
// GLSL spelling, grounded on the teacher's scalarToGLSL/vectorToGLSL/
// matrixToGLSL triplet (the teacher dispatches on three separate WGSL IR
// struct kinds; DataType's single arithmetic enum collapses the same
// base/vector/matrix split HLSL's own type grid already encodes).
func dataTypeToGLSL(t hlsl.DataType) string {
	if t == hlsl.Void {
		return "void"
	}
	base := hlsl.BaseDataType(t)
	switch {
	case t.IsScalar():
		return scalarBaseGLSL(base)
	case t.IsVector():
		return vectorPrefixGLSL(base) + fmt.Sprintf("vec%d", hlsl.VectorSize(t))
	case t.IsMatrix():
		rows, cols := hlsl.MatrixDims(t)
		prefix := vectorPrefixGLSL(base)
		// GLSL spells matCxR (C columns, R rows); HLSL's RxC storage is the
		// transpose, so the emitted dimensions swap rows/cols here. Callers
		// that build matrix literals from HLSL row-major data are
		// responsible for transposing the values to match.
		if rows == cols {
			return fmt.Sprintf("%smat%d", prefix, rows)
		}
		return fmt.Sprintf("%smat%dx%d", prefix, cols, rows)
	default:
		return "void"
	}
}

func scalarBaseGLSL(base hlsl.DataType) string {
	switch base {
	case hlsl.Bool:
		return "bool"
	case hlsl.Int:
		return "int"
	case hlsl.UInt:
		return "uint"
	case hlsl.Double:
		return "double"
	default: // Half, Float: GLSL has no native half, widen to float
		return "float"
	}
}

func vectorPrefixGLSL(base hlsl.DataType) string {
	switch base {
	case hlsl.Bool:
		return "b"
	case hlsl.Int:
		return "i"
	case hlsl.UInt:
		return "u"
	case hlsl.Double:
		return "d"
	default:
		return ""
	}
}

// bufferTypeToGLSL maps an HLSL texture/RWTexture object to its GLSL
// combined-sampler or image type, grounded on the teacher's imageToGLSL
// (same Dim/Arrayed/Multisampled/Class dispatch, retargeted from WGSL's
// ImageType fields to HLSL's flat 32-variant BufferType enum).
func bufferTypeToGLSL(t hlsl.TypeDenoter) string {
	prefix := ""
	if t.BufferElem != nil && t.BufferElem.Tag == hlsl.DenoterBase {
		prefix = vectorPrefixGLSL(hlsl.BaseDataType(t.BufferElem.Base))
	}
	switch t.BufferKind {
	case hlsl.BufferTexture1D:
		return prefix + "sampler1D"
	case hlsl.BufferTexture1DArray:
		return prefix + "sampler1DArray"
	case hlsl.BufferTexture2D:
		return prefix + "sampler2D"
	case hlsl.BufferTexture2DArray:
		return prefix + "sampler2DArray"
	case hlsl.BufferTexture2DMS:
		return prefix + "sampler2DMS"
	case hlsl.BufferTexture2DMSArray:
		return prefix + "sampler2DMSArray"
	case hlsl.BufferTexture3D:
		return prefix + "sampler3D"
	case hlsl.BufferTextureCube:
		return prefix + "samplerCube"
	case hlsl.BufferTextureCubeArray:
		return prefix + "samplerCubeArray"
	case hlsl.BufferTexture1DShadow:
		return "sampler1DShadow"
	case hlsl.BufferTexture2DShadow:
		return "sampler2DShadow"
	case hlsl.BufferTextureCubeShadow:
		return "samplerCubeShadow"
	case hlsl.BufferTexture2DArrayShadow:
		return "sampler2DArrayShadow"
	case hlsl.BufferRWTexture1D:
		return prefix + "image1D"
	case hlsl.BufferRWTexture1DArray:
		return prefix + "image1DArray"
	case hlsl.BufferRWTexture2D:
		return prefix + "image2D"
	case hlsl.BufferRWTexture2DArray:
		return prefix + "image2DArray"
	case hlsl.BufferRWTexture3D:
		return prefix + "image3D"
	default:
		return "" // structured/byte-address buffers: handled as storage blocks, not a value type
	}
}
