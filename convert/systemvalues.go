// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package convert performs the semantic transformation pass between name
// resolution and GLSL emission: entry-point struct flattening, SV_* <-> gl_*
// system-value mapping, intrinsic rewriting, attribute lowering to per-stage
// layout records, register-to-binding assignment, and target GLSL version/
// extension inference. Grounded throughout on the teacher's glsl package,
// which already encodes "which builtin maps to which gl_* variable" and
// "which binding comes from which space" for its own (WGSL) source language;
// this package adapts those same mappings to HLSL's SV_*/register() surface.
package convert

import "github.com/gogpu/xsc/hlsl"

// Direction distinguishes a semantic's use as a stage input or output;
// several SV_* semantics map to different gl_* variables (or none at all)
// depending on direction (e.g. SV_Position is gl_Position as a vertex
// output, but maps to gl_FragCoord as a fragment input).
type Direction uint8

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// GLSLBuiltin names a GLSL built-in variable a system-value semantic maps
// to, or the empty string when the semantic has no corresponding built-in
// (user-defined varyings instead get a `location`-bound interface block
// member — see entrypoint.go).
type GLSLBuiltin struct {
	// Name is the gl_* identifier to reference in place of the member.
	Name string
	// IsBuiltin is false when the semantic has no built-in and the member
	// needs a regular location-bound declaration instead.
	IsBuiltin bool
	// NeedsUintCast is true for GLSL built-ins that are `int` where HLSL
	// models the value as `uint` (gl_VertexID, gl_InstanceID).
	NeedsUintCast bool
}

// MapSystemValue returns the GLSL built-in corresponding to sem used in the
// given direction, grounded on glsl/writer.go's glslBuiltIn switch (which
// performs the same mapping from the teacher's ir.BuiltinValue enum).
func MapSystemValue(sem hlsl.Semantic, dir Direction) GLSLBuiltin {
	switch sem {
	case hlsl.SemanticSVPosition:
		if dir == DirectionOutput {
			return GLSLBuiltin{Name: "gl_Position", IsBuiltin: true}
		}
		return GLSLBuiltin{Name: "gl_FragCoord", IsBuiltin: true}
	case hlsl.SemanticSVVertexID:
		return GLSLBuiltin{Name: "gl_VertexID", IsBuiltin: true, NeedsUintCast: true}
	case hlsl.SemanticSVInstanceID:
		return GLSLBuiltin{Name: "gl_InstanceID", IsBuiltin: true, NeedsUintCast: true}
	case hlsl.SemanticSVIsFrontFace:
		return GLSLBuiltin{Name: "gl_FrontFacing", IsBuiltin: true}
	case hlsl.SemanticSVDepth:
		return GLSLBuiltin{Name: "gl_FragDepth", IsBuiltin: true}
	case hlsl.SemanticSVSampleIndex:
		return GLSLBuiltin{Name: "gl_SampleID", IsBuiltin: true}
	case hlsl.SemanticSVDispatchThreadID:
		return GLSLBuiltin{Name: "gl_GlobalInvocationID", IsBuiltin: true}
	case hlsl.SemanticSVGroupID:
		return GLSLBuiltin{Name: "gl_WorkGroupID", IsBuiltin: true}
	case hlsl.SemanticSVGroupThreadID:
		return GLSLBuiltin{Name: "gl_LocalInvocationID", IsBuiltin: true}
	case hlsl.SemanticSVGroupIndex:
		return GLSLBuiltin{Name: "gl_LocalInvocationIndex", IsBuiltin: true}
	case hlsl.SemanticSVPrimitiveID:
		return GLSLBuiltin{Name: "gl_PrimitiveID", IsBuiltin: true}
	case hlsl.SemanticSVRenderTargetArrayIndex:
		return GLSLBuiltin{Name: "gl_Layer", IsBuiltin: true}
	case hlsl.SemanticSVViewportArrayIndex:
		return GLSLBuiltin{Name: "gl_ViewportIndex", IsBuiltin: true}
	case hlsl.SemanticSVStencilRef:
		return GLSLBuiltin{Name: "gl_FragStencilRefARB", IsBuiltin: true}
	case hlsl.SemanticSVTarget:
		// Fragment color output: not a gl_* built-in in modern (core/ES3)
		// GLSL, it's a location-bound `out` declaration (fragColor).
		return GLSLBuiltin{IsBuiltin: false}
	default:
		return GLSLBuiltin{IsBuiltin: false}
	}
}

// RequiresExtension returns the GLSL extension a system value needs, or ""
// if none (most of the set above are core since GLSL 3.30/ES 3.00).
func RequiresExtension(sem hlsl.Semantic) string {
	if sem == hlsl.SemanticSVStencilRef {
		return "GL_ARB_shader_stencil_export"
	}
	return ""
}
