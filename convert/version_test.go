// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
)

func TestInferVersionRequirementCompute(t *testing.T) {
	prog := &hlsl.Program{Compute: &hlsl.ComputeLayout{}}
	req := InferVersionRequirement(prog)
	if !req.RequiresCompute {
		t.Error("a compute-shader Program should require RequiresCompute")
	}
	if req.RequiresStorageBuffers {
		t.Error("no buffers declared, RequiresStorageBuffers should be false")
	}
}

func TestInferVersionRequirementStorageBuffer(t *testing.T) {
	prog := &hlsl.Program{
		Buffers: []*hlsl.BufferDecl{{BufferKind: hlsl.BufferRWStructured}},
	}
	req := InferVersionRequirement(prog)
	if !req.RequiresStorageBuffers {
		t.Error("an RWStructuredBuffer should set RequiresStorageBuffers")
	}
}

func TestInferVersionRequirementReadOnlyBufferNoStorage(t *testing.T) {
	prog := &hlsl.Program{
		Buffers: []*hlsl.BufferDecl{{BufferKind: hlsl.BufferTexture2D}},
	}
	req := InferVersionRequirement(prog)
	if req.RequiresStorageBuffers {
		t.Error("a read-only Texture2D should not set RequiresStorageBuffers")
	}
}

func TestInferVersionRequirementInterlockedExtension(t *testing.T) {
	prog := &hlsl.Program{
		UsedIntrinsics: map[hlsl.IntrinsicKey]struct{}{
			{Name: "InterlockedAdd", Args: "uint"}: {},
		},
	}
	req := InferVersionRequirement(prog)
	if len(req.Extensions) != 1 || req.Extensions[0] != "GL_ARB_shader_atomic_counters" {
		t.Errorf("Extensions = %v, want [GL_ARB_shader_atomic_counters]", req.Extensions)
	}
}
