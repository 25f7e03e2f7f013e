// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/xsc/hlsl"

// VersionRequirement is the minimum GLSL capability a Program's feature use
// implies, expressed independently of any concrete glsl.Version so this
// package doesn't need to import glsl (avoiding a dependency cycle; the
// backend combines this with the user's requested target).
type VersionRequirement struct {
	// RequiresCompute is set by a [numthreads] compute entry point.
	RequiresCompute bool
	// RequiresStorageBuffers is set by a RWStructuredBuffer/RWByteAddressBuffer
	// or other UAV use.
	RequiresStorageBuffers bool
	// Extensions lists GLSL extensions a feature needs beyond core.
	Extensions []string
}

// InferVersionRequirement scans prog for features that raise the minimum
// target capability, grounded on glsl.Version.SupportsCompute/
// SupportsStorageBuffers (teacher): compute entry points need GLSL ES 3.10 /
// desktop 4.30, and any UAV (RWStructuredBuffer etc.) needs storage-buffer
// support at the same versions.
func InferVersionRequirement(prog *hlsl.Program) VersionRequirement {
	var req VersionRequirement
	if prog.Compute != nil {
		req.RequiresCompute = true
	}
	for _, buf := range prog.Buffers {
		if isUAV(buf.BufferKind) {
			req.RequiresStorageBuffers = true
		}
	}
	for key := range prog.UsedIntrinsics {
		if ext := intrinsicExtension(key.Name); ext != "" {
			req.Extensions = append(req.Extensions, ext)
		}
	}
	return req
}

func isUAV(kind hlsl.BufferType) bool {
	switch kind {
	case hlsl.BufferRWStructured, hlsl.BufferRWByteAddress, hlsl.BufferAppendStructured,
		hlsl.BufferConsumeStructured, hlsl.BufferRWTexture1D, hlsl.BufferRWTexture1DArray,
		hlsl.BufferRWTexture2D, hlsl.BufferRWTexture2DArray, hlsl.BufferRWTexture3D:
		return true
	default:
		return false
	}
}

// intrinsicExtension names the GLSL extension an Interlocked* atomic
// intrinsic needs on buffer memory (core since GLSL 4.30/ES 3.10, but
// desktop 3.30 needs the ARB extension).
func intrinsicExtension(name string) string {
	switch name {
	case "InterlockedAdd", "InterlockedAnd", "InterlockedOr", "InterlockedXor",
		"InterlockedMin", "InterlockedMax", "InterlockedExchange", "InterlockedCompareExchange":
		return "GL_ARB_shader_atomic_counters"
	default:
		return ""
	}
}
