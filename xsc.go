// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package xsc cross-compiles HLSL (Direct3D shading language) source to
// GLSL (OpenGL Shading Language) targeting a caller-selected version and
// shader stage.
//
// The package provides a simple, high-level API for shader translation as
// well as lower-level access to individual compilation stages.
//
// Example usage:
//
//	output, err := xsc.Compile(xsc.ShaderInput{
//	    Source:     source,
//	    EntryPoint: "PSMain",
//	    Stage:      convert.StageFragment,
//	}, xsc.ShaderOutput{
//	    Version: glsl.Version330,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(output.Source)
//
// For lower-level access, use Parse, followed by resolve.Bind and
// reference.Analyze, followed by glsl.Compile directly.
package xsc

import (
	"fmt"

	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/diag"
	"github.com/gogpu/xsc/glsl"
	"github.com/gogpu/xsc/hlsl"
	"github.com/gogpu/xsc/reference"
	"github.com/gogpu/xsc/resolve"
)

// VersionFlavor selects HLSL dialect grammar tweaks for parsing. The
// lexer and parser are grammar-stable across shader model revisions
// today, so this currently has no effect on tokenization; it is part of
// the input contract for the dialect differences a caller may need later
// (numeric-suffix set, reserved-word list).
type VersionFlavor uint8

const (
	// SM5 selects Shader Model 5 grammar (the only flavor implemented).
	SM5 VersionFlavor = iota
)

// ShaderInput is the source-level contract for one translation: a
// preprocessed source text plus the entry-point selection needed to plan
// stage-specific I/O.
type ShaderInput struct {
	// Source is preprocessed HLSL text with accurate line/column info.
	// Running a preprocessor over #include/#define is out of scope.
	Source string

	// EntryPoint names the function to translate. Defaults to "main" if
	// empty.
	EntryPoint string

	// Stage selects the shader stage the entry point targets.
	Stage convert.Stage

	// SecondaryEntryPoint names the patch-constant function for a
	// tessellation-control entry point. Empty for every other stage.
	SecondaryEntryPoint string

	// Flavor selects the HLSL dialect grammar to parse with.
	Flavor VersionFlavor
}

// ShaderOutput configures GLSL emission and, after Compile returns,
// carries the generated source plus compile statistics.
type ShaderOutput struct {
	// Version is the requested GLSL version. Defaults to glsl.Version330
	// if zero.
	Version glsl.Version

	// SamplerBindingBase, TextureBindingBase, UniformBindingBase, and
	// StorageBindingBase add an offset to their respective binding-index
	// kind, letting a caller pack several shaders into one binding space.
	SamplerBindingBase uint32
	TextureBindingBase uint32
	UniformBindingBase uint32
	StorageBindingBase uint32

	// ForceHighPrecision forces highp precision for all float types on
	// GLSL ES targets.
	ForceHighPrecision bool

	// Source holds the generated GLSL text after a successful Compile.
	Source string

	// Info holds binding/extension/version statistics after a successful
	// Compile: used uniform bindings, texture bindings, and interface
	// locations are recoverable from Info.TextureSamplerPairs and the
	// layout(location=N)/binding=N directives already written into Source.
	Info glsl.TranslationInfo

	// Diagnostics collects every Report produced across lexing, parsing,
	// binding, and analysis. A pipeline stops at the first error. A Compile
	// that fails in parsing or binding ends its Diagnostics with at least
	// one Error report; a failure during GLSL emission is reported only
	// through the returned error. Diagnostics may also hold only warnings
	// on success.
	Diagnostics diag.Reports
}

// CompileOptions holds pipeline-wide switches that apply across every
// stage rather than to one input/output pair. Its one switch,
// SkipAnalysis, lets a caller opt out of Analyze's reachability pass when
// translating a shader already known to be fully referenced (rare, but
// cheap to support).
type CompileOptions struct {
	// SkipAnalysis skips the reference-analysis pass (reachability and
	// dead-code tagging). The emitter uses its output only to omit
	// functions the entry point never reaches; with the pass skipped,
	// every defined function is emitted.
	SkipAnalysis bool
}

// DefaultOptions returns sensible default pipeline options.
func DefaultOptions() CompileOptions {
	return CompileOptions{SkipAnalysis: false}
}

// Compile translates input to GLSL using output's settings and default
// pipeline options, returning an output populated with the generated
// source, translation info, and diagnostics.
func Compile(input ShaderInput, output ShaderOutput) (ShaderOutput, error) {
	return CompileWithOptions(input, output, DefaultOptions())
}

// CompileWithOptions runs the full translation pipeline:
//
//  1. Parse tokenizes and parses input.Source to an AST.
//  2. resolve.Bind resolves names, types, and overloads in place.
//  3. reference.Analyze tags reachability and dead code (unless
//     opts.SkipAnalysis).
//  4. glsl.Compile lowers the selected entry point and emits GLSL text.
//
// Each stage's diagnostics are appended to the returned output's
// Diagnostics. A stage that produces an Error report aborts the pipeline;
// Warnings never abort.
func CompileWithOptions(input ShaderInput, output ShaderOutput, opts CompileOptions) (ShaderOutput, error) {
	prog, reports, err := Parse(input.Source)
	output.Diagnostics = append(output.Diagnostics, reports...)
	if err != nil {
		return output, fmt.Errorf("xsc: parse: %w", err)
	}

	entryName := input.EntryPoint
	if entryName == "" {
		entryName = "main"
	}
	prog.EntryPoint = entryName
	prog.SecondaryEntry = input.SecondaryEntryPoint

	bindReports := resolve.Bind(prog, input.Source)
	output.Diagnostics = append(output.Diagnostics, bindReports...)
	if bindReports.HasErrors() {
		return output, fmt.Errorf("xsc: bind: %w", bindReports.FirstError())
	}

	if !opts.SkipAnalysis {
		reference.Analyze(prog)
	}

	glslOptions := glsl.Options{
		LangVersion:        output.Version,
		Stage:              input.Stage,
		EntryPoint:         entryName,
		SamplerBindingBase: output.SamplerBindingBase,
		TextureBindingBase: output.TextureBindingBase,
		UniformBindingBase: output.UniformBindingBase,
		StorageBindingBase: output.StorageBindingBase,
		ForceHighPrecision: output.ForceHighPrecision,
	}
	if glslOptions.LangVersion.Major == 0 {
		glslOptions.LangVersion = glsl.Version330
	}

	source, info, err := glsl.Compile(prog, glslOptions)
	if err != nil {
		return output, fmt.Errorf("xsc: emit: %w", err)
	}

	output.Source = source
	output.Info = info
	return output, nil
}

// Parse tokenizes and parses source to an AST (Abstract Syntax Tree).
//
// This is the first stage of compilation. The AST represents the
// syntactic structure of the shader but carries no resolved types or
// symbol bindings yet; use resolve.Bind for that.
func Parse(source string) (*hlsl.Program, diag.Reports, error) {
	lexer := hlsl.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, nil, fmt.Errorf("tokenization error: %w", err)
	}

	parser := hlsl.NewParser(tokens, source)
	prog, reports := parser.Parse()
	if reports.HasErrors() {
		return prog, reports, fmt.Errorf("parse error: %w", reports.FirstError())
	}
	return prog, reports, nil
}

// Bind resolves names, scopes, overloads, and expression types across
// prog in place. source is used only to render diagnostic excerpts.
func Bind(prog *hlsl.Program, source string) diag.Reports {
	return resolve.Bind(prog, source)
}

// Analyze tags reachability and dead code across prog in place.
func Analyze(prog *hlsl.Program) {
	reference.Analyze(prog)
}
