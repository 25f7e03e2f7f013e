// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/hlsl"
	"github.com/gogpu/xsc/internal/testshader"
	"github.com/gogpu/xsc/reference"
	"github.com/gogpu/xsc/resolve"
)

func compileSource(t *testing.T, source string, stage convert.Stage) (string, TranslationInfo) {
	t.Helper()
	lexer := hlsl.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	parser := hlsl.NewParser(tokens, source)
	prog, reports := parser.Parse()
	if reports.HasErrors() {
		t.Fatalf("parse errors: %v", reports.FirstError())
	}
	prog.EntryPoint = "main"

	bindReports := resolve.Bind(prog, source)
	if bindReports.HasErrors() {
		t.Fatalf("bind errors: %v", bindReports.FirstError())
	}
	reference.Analyze(prog)

	opts := DefaultOptions()
	opts.Stage = stage
	code, info, err := Compile(prog, opts)
	if err != nil {
		t.Fatalf("glsl.Compile: %v", err)
	}
	return code, info
}

func TestCompileFragmentEmitsVersionAndMain(t *testing.T) {
	code, _ := compileSource(t, testshader.BasicFragment, convert.StageFragment)
	if !strings.Contains(code, "#version 330 core") {
		t.Error("expected a #version 330 core directive")
	}
	if !strings.Contains(code, "void main()") {
		t.Error("expected a void main() entry point")
	}
	if !strings.Contains(code, "uniform sampler2D baseColor") {
		t.Errorf("expected combined sampler2D uniform for baseColor, got:\n%s", code)
	}
	if strings.Contains(code, "baseSampler") {
		t.Error("SamplerState argument should be dropped, not referenced in output")
	}
}

func TestCompileFragmentReplacesSVPositionWithFragCoord(t *testing.T) {
	code, _ := compileSource(t, testshader.BasicFragment, convert.StageFragment)
	if strings.Contains(code, "SV_Position") {
		t.Error("SV_Position should never appear verbatim in GLSL output")
	}
}

func TestCompileVertexFlattensStructOutput(t *testing.T) {
	code, _ := compileSource(t, testshader.BasicVertex, convert.StageVertex)
	if !strings.Contains(code, "gl_Position") {
		t.Errorf("expected gl_Position assignment in vertex output, got:\n%s", code)
	}
	if !strings.Contains(code, "void main()") {
		t.Error("expected a void main() entry point")
	}
}

func TestCompileClipBecomesDiscard(t *testing.T) {
	code, _ := compileSource(t, testshader.ClipFragment, convert.StageFragment)
	if !strings.Contains(code, "discard") {
		t.Errorf("expected clip() to be rewritten to a discard statement, got:\n%s", code)
	}
	if strings.Contains(code, "clip(") {
		t.Error("clip( should not survive verbatim into GLSL output")
	}
}

func TestCompileComputeEmitsLocalSizeLayout(t *testing.T) {
	code, info := compileSource(t, testshader.StorageBufferCompute, convert.StageCompute)
	if !strings.Contains(code, "local_size_x = 64") {
		t.Errorf("expected a local_size_x = 64 layout qualifier, got:\n%s", code)
	}
	if !strings.Contains(code, "buffer") {
		t.Errorf("expected a std430 buffer block for the RWStructuredBuffer, got:\n%s", code)
	}
	if info.RequiredVersion.Major == 0 {
		t.Error("expected a non-zero inferred required version for a compute shader")
	}
}

func TestCompilePreservesMulOperandOrder(t *testing.T) {
	code, _ := compileSource(t, testshader.MulFragment, convert.StageFragment)
	if !strings.Contains(code, "(m * v)") {
		t.Errorf("expected mul(m, v) to become (m * v), got:\n%s", code)
	}
	if strings.Contains(code, "mul(") {
		t.Error("mul( should not survive verbatim into GLSL output")
	}
}

func TestCompileInterlockedAddBecomesAssignment(t *testing.T) {
	code, _ := compileSource(t, testshader.InterlockedAddCompute, convert.StageCompute)
	if !strings.Contains(code, "prev = atomicAdd(") {
		t.Errorf("expected InterlockedAdd(mem, val, prev) to become prev = atomicAdd(mem, val), got:\n%s", code)
	}
	if strings.Contains(code, "InterlockedAdd") {
		t.Error("InterlockedAdd should not survive verbatim into GLSL output")
	}
}

func TestCompileOmitsUnreachableFunctions(t *testing.T) {
	code, _ := compileSource(t, testshader.UnreachableHelperFragment, convert.StageFragment)
	if strings.Contains(code, "helper") {
		t.Errorf("a function never called from the entry point should be omitted from output, got:\n%s", code)
	}
}

func TestCompileUnknownEntryPointErrors(t *testing.T) {
	lexer := hlsl.NewLexer(testshader.BasicFragment)
	tokens, _ := lexer.Tokenize()
	parser := hlsl.NewParser(tokens, testshader.BasicFragment)
	prog, _ := parser.Parse()
	prog.EntryPoint = "main"
	resolve.Bind(prog, testshader.BasicFragment)
	reference.Analyze(prog)

	opts := DefaultOptions()
	opts.EntryPoint = "DoesNotExist"
	if _, _, err := Compile(prog, opts); err == nil {
		t.Error("expected an error compiling a nonexistent entry point")
	}
}
