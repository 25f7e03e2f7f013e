// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl emits GLSL (OpenGL Shading Language) source for one entry
// point of a bound, analyzed HLSL program.
//
// It supports multiple GLSL versions for different target platforms:
//
//   - GLSL ES 3.00: WebGL 2.0, Mobile OpenGL ES 3.0
//   - GLSL 3.30 Core: Desktop OpenGL 3.3+
//   - GLSL ES 3.10: Android 5.0+ with compute shaders
//   - GLSL 4.30 Core: Desktop OpenGL 4.3+ with compute shaders
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(prog, glsl.Options{
//	    LangVersion: glsl.Version330,
//	    Stage:       convert.StageFragment,
//	})
//
// # Texture/Sampler Handling
//
// HLSL separates texture objects and sampler state, but GLSL combines them
// into one sampler type. The backend drops the SamplerState argument at
// every Sample* call site and lets the texture's own uniform name double as
// the combined sampler.
//
// # Entry-Point Lowering
//
// A struct-typed entry-point parameter or return value is flattened member
// by member; each member resolves to a gl_* built-in or a top-level
// layout(location=N) declaration, following convert.PlanEntryPoint. No
// interface blocks are emitted: members planned as convert.IOBlockMember
// are declared at top level like any other located member. GLSL's entry
// point is always void, so a non-void HLSL return is rewritten to assign
// the planned outputs before a bare return.
//
// # Reserved Words
//
// GLSL has over 500 reserved words (including future reserved). The
// backend automatically escapes conflicting identifier names by prefixing
// them with an underscore.
package glsl
