// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/hlsl"
)

// Writer generates GLSL source for one entry point of an hlsl.Program.
// Unlike a handle-indexed IR, the program is a pointer-identity AST: every
// declaration already carries its own real identifier, so there is no
// synthetic name table to build (contrast the teacher's nameKey/namer pair)
// and no SSA-style "bake expression to a temporary" pass (contrast the
// teacher's namedExpressions/needBakeExpression) — expressions print
// directly by walking the tree (see expressions.go).
type Writer struct {
	prog    *hlsl.Program
	entry   *hlsl.FunctionDeclStmt
	options *Options
	plan    *convert.EntryPointPlan
	bases   convert.BindingBases

	out    strings.Builder
	indent int

	// ioByDecl maps a flattened struct member (or a bare entry parameter) to
	// its resolved GLSL binding, letting expression printing substitute a
	// gl_* builtin or a top-level in/out name without any AST rewrite pass.
	ioByDecl map[hlsl.Decl]convert.IOBinding

	inEntryPoint bool

	textureSamplerPairs []string
	extensions          []string
	requiredVersion     Version
}

func newWriter(prog *hlsl.Program, entry *hlsl.FunctionDeclStmt, options *Options) *Writer {
	w := &Writer{
		prog:    prog,
		entry:   entry,
		options: options,
		bases: convert.BindingBases{
			Sampler: options.SamplerBindingBase,
			Texture: options.TextureBindingBase,
			Uniform: options.UniformBindingBase,
			Storage: options.StorageBindingBase,
		},
		requiredVersion: options.LangVersion,
	}
	convert.LowerAttributes(prog, entry)
	w.plan = convert.PlanEntryPoint(entry, options.Stage)
	w.buildIODeclMap()
	return w
}

func (w *Writer) buildIODeclMap() {
	w.ioByDecl = make(map[hlsl.Decl]convert.IOBinding)
	add := func(b convert.IOBinding) {
		if b.Member != nil {
			w.ioByDecl[b.Member] = b
		}
		if b.ParamRef != nil {
			w.ioByDecl[b.ParamRef] = b
		}
	}
	for _, b := range w.plan.Inputs {
		add(b)
	}
	for _, b := range w.plan.Outputs {
		add(b)
	}
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeModule generates GLSL code for the selected entry point.
func (w *Writer) writeModule() error {
	w.mergeVersionRequirement(convert.InferVersionRequirement(w.prog))

	w.writeVersionDirective()
	w.writeExtensionDirectives()
	w.writePrecisionQualifiers()

	if err := w.writeStructs(); err != nil {
		return err
	}
	w.writeBuffersAndSamplers()
	w.writeUniformBuffers()
	w.writeGlobals()

	if err := w.writeFunctions(); err != nil {
		return err
	}

	return w.writeEntryPoint()
}

// mergeVersionRequirement raises w.requiredVersion and records extensions
// implied by feature use (spec.md's version/extension inference), on top of
// whatever the caller explicitly requested.
func (w *Writer) mergeVersionRequirement(req convert.VersionRequirement) {
	if req.RequiresCompute && !w.requiredVersion.SupportsCompute() {
		w.requiredVersion = minComputeVersion(w.requiredVersion)
	}
	if req.RequiresStorageBuffers && !w.requiredVersion.SupportsStorageBuffers() {
		w.requiredVersion = minComputeVersion(w.requiredVersion)
	}
	for _, ext := range req.Extensions {
		if !containsString(w.extensions, ext) {
			w.extensions = append(w.extensions, ext)
		}
	}
}

func minComputeVersion(current Version) Version {
	if current.ES {
		return VersionES310
	}
	return Version430
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (w *Writer) writeVersionDirective() {
	w.writeLine("#version %s", w.requiredVersion.String())
	w.writeLine("")
}

// writeExtensionDirectives emits #extension for every capability InferVersionRequirement
// found. The teacher tracked UsedExtensions in TranslationInfo but never
// actually wrote the directive into the source; this closes that gap.
func (w *Writer) writeExtensionDirectives() {
	for _, ext := range w.extensions {
		w.writeLine("#extension %s : require", ext)
	}
	if len(w.extensions) > 0 {
		w.writeLine("")
	}
}

func (w *Writer) writePrecisionQualifiers() {
	if !w.requiredVersion.ES {
		return
	}
	w.writeLine("precision highp float;")
	w.writeLine("precision highp int;")
	w.writeLine("precision highp sampler2D;")
	w.writeLine("precision highp sampler3D;")
	w.writeLine("precision highp samplerCube;")
	w.writeLine("")
}

// writeStructs flattens every user struct's inheritance chain into its full
// member list (spec.md 4.5 struct-inheritance flattening): GLSL has no
// structural inheritance, so a derived struct's declaration simply repeats
// its base's members ahead of its own.
func (w *Writer) writeStructs() error {
	for _, s := range w.prog.Structs {
		w.writeLine("struct %s {", escapeKeyword(s.Name))
		w.pushIndent()
		for _, m := range convert.FlattenMembers(s) {
			typeName := w.typeDenoterToGLSL(m.Type.Resolved)
			suffix := arraySuffix(m.Type.Resolved)
			w.writeLine("%s %s%s;", typeName, escapeKeyword(m.Name), suffix)
		}
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
	}
	return nil
}

// writeBuffersAndSamplers emits one uniform per texture/generic buffer
// object, and routes structured/byte-address buffers to writeStorageBuffer.
// SamplerState/SamplerComparisonState declarations are dropped: a texture's
// own name doubles as the GLSL combined sampler (see expressions.go's
// writeMethodCall), matching the pairing the teacher already tracks in
// textureSamplerPairs but never turns into a declaration of its own.
func (w *Writer) writeBuffersAndSamplers() {
	any := false
	for _, b := range w.prog.Buffers {
		if isStorageBufferKind(b.BufferKind) {
			w.writeStorageBuffer(b)
			any = true
			continue
		}
		typeName := w.bufferDeclToGLSL(b)
		if typeName == "" {
			continue
		}
		binding := convert.ResolveRegister(b.Register, w.bases)
		name := escapeKeyword(b.Name)
		if binding.HasBinding {
			w.writeLine("layout(binding = %d) uniform %s %s;", binding.Number, typeName, name)
		} else {
			w.writeLine("uniform %s %s;", typeName, name)
		}
		any = true
	}
	if any {
		w.writeLine("")
	}
}

func (w *Writer) bufferDeclToGLSL(b *hlsl.BufferDecl) string {
	if b.BufferKind == hlsl.BufferGeneric {
		return "samplerBuffer"
	}
	denoter := hlsl.TypeDenoter{Tag: hlsl.DenoterBuffer, BufferKind: b.BufferKind}
	if b.ElemType != nil {
		denoter.BufferElem = &b.ElemType.Resolved
	}
	return bufferTypeToGLSL(denoter)
}

func isStorageBufferKind(k hlsl.BufferType) bool {
	switch k {
	case hlsl.BufferStructured, hlsl.BufferRWStructured, hlsl.BufferAppendStructured,
		hlsl.BufferConsumeStructured, hlsl.BufferByteAddress, hlsl.BufferRWByteAddress:
		return true
	default:
		return false
	}
}

// writeStorageBuffer emits a std430 buffer block for one UAV/SRV structured
// or byte-address buffer. ByteAddressBuffer has no element type in HLSL (it
// is addressed in raw bytes); this models it as a flat uint array, the
// simplest GLSL shape that preserves Load/Store-by-offset semantics for the
// common 4-byte-aligned access pattern.
func (w *Writer) writeStorageBuffer(b *hlsl.BufferDecl) {
	elemType := "uint"
	switch b.BufferKind {
	case hlsl.BufferStructured, hlsl.BufferRWStructured, hlsl.BufferAppendStructured, hlsl.BufferConsumeStructured:
		if b.ElemType != nil {
			elemType = w.typeDenoterToGLSL(b.ElemType.Resolved) + arraySuffix(b.ElemType.Resolved)
		}
	}
	name := escapeKeyword(b.Name)
	binding := convert.ResolveRegister(b.Register, w.bases)
	if binding.HasBinding {
		w.writeLine("layout(std430, binding = %d) buffer %s_block { %s %s[]; };", binding.Number, name, elemType, name)
	} else {
		w.writeLine("layout(std430) buffer %s_block { %s %s[]; };", name, elemType, name)
	}
}

// writeUniformBuffers emits a cbuffer/tbuffer as a nameless-instance GLSL
// interface block, matching HLSL's flat unqualified member-access semantics
// (a cbuffer's members are referenced directly by name, not through the
// block's own name).
func (w *Writer) writeUniformBuffers() {
	for _, u := range w.prog.UniformBuffers {
		binding := convert.ResolveRegister(u.Register, w.bases)
		if binding.HasBinding {
			w.writeLine("layout(std140, binding = %d) uniform %s {", binding.Number, escapeKeyword(u.Name))
		} else {
			w.writeLine("layout(std140) uniform %s {", escapeKeyword(u.Name))
		}
		w.pushIndent()
		for _, m := range u.Members {
			typeName := w.typeDenoterToGLSL(m.Type.Resolved)
			suffix := arraySuffix(m.Type.Resolved)
			w.writeLine("%s %s%s;", typeName, escapeKeyword(m.Name), suffix)
		}
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
	}
}

// writeGlobals emits module-scope variables that live outside any cbuffer:
// `static` locals become plain globals, `groupshared` becomes `shared`, and
// a bare `uniform` global gets its own binding.
func (w *Writer) writeGlobals() {
	any := false
	for _, g := range w.prog.Globals {
		typeName := w.typeDenoterToGLSL(g.Type.Resolved)
		suffix := arraySuffix(g.Type.Resolved)
		name := escapeKeyword(g.Name)
		switch g.Storage {
		case hlsl.StorageShared:
			w.writeLine("shared %s %s%s;", typeName, name, suffix)
		case hlsl.StorageUniform:
			binding := convert.ResolveRegister(g.Register, w.bases)
			if binding.HasBinding {
				w.writeLine("layout(binding = %d) uniform %s %s%s;", binding.Number, typeName, name, suffix)
			} else {
				w.writeLine("uniform %s %s%s;", typeName, name, suffix)
			}
		default:
			if g.Init != nil {
				if init, err := w.writeExpr(g.Init); err == nil {
					w.writeLine("%s %s%s = %s;", typeName, name, suffix, init)
					any = true
					continue
				}
			}
			w.writeLine("%s %s%s;", typeName, name, suffix)
		}
		any = true
	}
	if any {
		w.writeLine("")
	}
}

// writeFunctions emits every defined, reached function except the selected
// entry point, which writeEntryPoint renders as GLSL's required
// `void main()`. A function left unreached by reference.Analyze (dead code,
// never called from the entry point) is omitted entirely, per
// reference.Analyze's documented contract. If the entry point itself was
// never flagged reachable, analysis was not run (xsc.CompileOptions.SkipAnalysis);
// reachability filtering is skipped so every defined function still emits.
func (w *Writer) writeFunctions() error {
	analyzed := w.entry.Flags.Has(hlsl.FlagReachable)
	for _, fn := range w.prog.Functions {
		if fn == w.entry || fn.Body == nil {
			continue
		}
		if analyzed && !fn.Flags.Has(hlsl.FlagReachable) {
			continue
		}
		if err := w.writeFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFunction(fn *hlsl.FunctionDeclStmt) error {
	returnType := "void"
	if fn.ReturnType != nil {
		returnType = w.typeDenoterToGLSL(fn.ReturnType.Resolved)
	}

	args := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		typeName := w.typeDenoterToGLSL(p.Type.Resolved)
		suffix := arraySuffix(p.Type.Resolved)
		prefix := ""
		switch p.Storage {
		case hlsl.StorageOut:
			prefix = "out "
		case hlsl.StorageInOut:
			prefix = "inout "
		}
		args = append(args, fmt.Sprintf("%s%s %s%s", prefix, typeName, escapeKeyword(p.Name), suffix))
	}

	w.writeLine("%s %s(%s) {", returnType, escapeKeyword(fn.Name), strings.Join(args, ", "))
	w.pushIndent()
	if err := w.writeCodeBlock(fn.Body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// Output helpers

//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

func (w *Writer) pushIndent() {
	w.indent++
}

func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
