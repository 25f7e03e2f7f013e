// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resolve

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
	"github.com/gogpu/xsc/internal/testshader"
)

func parseSource(t *testing.T, source string) *hlsl.Program {
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
	return prog
}

func TestBindResolvesFragmentTypes(t *testing.T) {
	prog := parseSource(t, testshader.BasicFragment)
	prog.EntryPoint = "main"
	reports := Bind(prog, testshader.BasicFragment)
	if reports.HasErrors() {
		t.Fatalf("Bind reported errors: %v", reports.FirstError())
	}

	if len(prog.Structs) != 1 || prog.Structs[0].Name != "PSInput" {
		t.Fatalf("expected one PSInput struct, got %+v", prog.Structs)
	}
	for _, m := range prog.Structs[0].Members {
		if m.Type.Resolved.Tag == hlsl.DenoterVoid {
			t.Errorf("member %q left unresolved", m.Name)
		}
	}

	if len(prog.Buffers) != 1 || prog.Buffers[0].BufferKind != hlsl.BufferTexture2D {
		t.Fatalf("expected one Texture2D buffer, got %+v", prog.Buffers)
	}
}

func TestBindResolvesVertexStructOutput(t *testing.T) {
	prog := parseSource(t, testshader.BasicVertex)
	prog.EntryPoint = "main"
	reports := Bind(prog, testshader.BasicVertex)
	if reports.HasErrors() {
		t.Fatalf("Bind reported errors: %v", reports.FirstError())
	}

	var entry *hlsl.FunctionDeclStmt
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			entry = fn
		}
	}
	if entry == nil {
		t.Fatal("entry point main not found")
	}
	if entry.ReturnType == nil || entry.ReturnType.Resolved.Tag != hlsl.DenoterStruct {
		t.Errorf("entry return type = %+v, want a resolved struct denoter", entry.ReturnType)
	}
	if entry.ReturnType.Resolved.StructRef == nil || entry.ReturnType.Resolved.StructRef.Name != "VSOutput" {
		t.Errorf("entry return struct = %+v, want VSOutput", entry.ReturnType.Resolved.StructRef)
	}
}

func TestBindResolvesExpressionTypes(t *testing.T) {
	prog := parseSource(t, testshader.BasicFragment)
	prog.EntryPoint = "main"
	reports := Bind(prog, testshader.BasicFragment)
	if reports.HasErrors() {
		t.Fatalf("Bind reported errors: %v", reports.FirstError())
	}

	var entry *hlsl.FunctionDeclStmt
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			entry = fn
		}
	}
	if entry == nil || entry.Body == nil {
		t.Fatal("entry point main with a body not found")
	}
	ret, ok := entry.Body.Stmts[len(entry.Body.Stmts)-1].(*hlsl.ReturnStmt)
	if !ok {
		t.Fatalf("last statement = %T, want *hlsl.ReturnStmt", entry.Body.Stmts[len(entry.Body.Stmts)-1])
	}
	if ret.Value.Type().Tag != hlsl.DenoterBase || ret.Value.Type().Base != hlsl.Float4 {
		t.Errorf("return expression type = %+v, want base Float4", ret.Value.Type())
	}
}
