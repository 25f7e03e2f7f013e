// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package reference

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
	"github.com/gogpu/xsc/internal/testshader"
	"github.com/gogpu/xsc/resolve"
)

func bindSource(t *testing.T, source string) *hlsl.Program {
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
	return prog
}

func findFunc(prog *hlsl.Program, name string) *hlsl.FunctionDeclStmt {
	for _, fn := range prog.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestAnalyzeMarksEntryPointReachable(t *testing.T) {
	prog := bindSource(t, testshader.UnreachableHelperFragment)
	Analyze(prog)

	main := findFunc(prog, "main")
	if main == nil || !main.Flags.Has(hlsl.FlagReachable) {
		t.Error("entry point main should be flagged FlagReachable")
	}
	helper := findFunc(prog, "helper")
	if helper == nil {
		t.Fatal("helper function not found")
	}
	if helper.Flags.Has(hlsl.FlagReachable) {
		t.Error("helper is never called from main and should not be flagged FlagReachable")
	}
}

func TestAnalyzeMarksDeadCodeAfterReturn(t *testing.T) {
	prog := bindSource(t, testshader.DeadCodeFragment)
	Analyze(prog)

	main := findFunc(prog, "main")
	if main == nil || main.Body == nil {
		t.Fatal("entry point main with a body not found")
	}
	if len(main.Body.Stmts) < 2 {
		t.Fatalf("expected at least 2 statements, got %d", len(main.Body.Stmts))
	}
	// The first statement is the live `return float4(...)`. Every
	// statement after it is unreachable.
	for i, s := range main.Body.Stmts[1:] {
		if !isDead(s) {
			t.Errorf("statement %d (%T) after unconditional return should be flagged FlagDeadCode", i+1, s)
		}
	}
}

func isDead(s hlsl.Stmt) bool {
	switch n := s.(type) {
	case *hlsl.VarDeclStmt:
		for _, v := range n.Decls {
			if !v.Flags.Has(hlsl.FlagDeadCode) {
				return false
			}
		}
		return true
	case *hlsl.ReturnStmt:
		return n.Flags.Has(hlsl.FlagDeadCode)
	default:
		return false
	}
}

func TestAnalyzeMarksEntryPointParamMembersAsShaderInput(t *testing.T) {
	prog := bindSource(t, testshader.BasicFragment)
	Analyze(prog)

	var psInput *hlsl.StructDecl
	for _, s := range prog.Structs {
		if s.Name == "PSInput" {
			psInput = s
		}
	}
	if psInput == nil {
		t.Fatal("PSInput struct not found")
	}
	if !psInput.Flags.Has(hlsl.FlagReachable) {
		t.Error("PSInput is reached through the entry point's parameter type and should be flagged FlagReachable")
	}
	for _, m := range psInput.Members {
		if !m.Flags.Has(hlsl.FlagShaderInput) {
			t.Errorf("member %q should be flagged FlagShaderInput", m.Name)
		}
	}
}
