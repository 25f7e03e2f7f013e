// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
)

func TestMapSystemValuePosition(t *testing.T) {
	out := MapSystemValue(hlsl.SemanticSVPosition, DirectionOutput)
	if !out.IsBuiltin || out.Name != "gl_Position" {
		t.Errorf("SV_Position output = %+v, want gl_Position", out)
	}
	in := MapSystemValue(hlsl.SemanticSVPosition, DirectionInput)
	if !in.IsBuiltin || in.Name != "gl_FragCoord" {
		t.Errorf("SV_Position input = %+v, want gl_FragCoord", in)
	}
}

func TestMapSystemValueVertexIDNeedsCast(t *testing.T) {
	b := MapSystemValue(hlsl.SemanticSVVertexID, DirectionInput)
	if !b.IsBuiltin || b.Name != "gl_VertexID" || !b.NeedsUintCast {
		t.Errorf("SV_VertexID = %+v, want gl_VertexID with NeedsUintCast", b)
	}
}

func TestMapSystemValueUnknownIsNotBuiltin(t *testing.T) {
	b := MapSystemValue(hlsl.Semantic(-1), DirectionInput)
	if b.IsBuiltin {
		t.Errorf("unknown semantic should not map to a builtin, got %+v", b)
	}
}
