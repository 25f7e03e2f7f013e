// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package reference computes reachability and dead-code flags over a bound
// hlsl.Program: which functions, structs, buffers, and samplers the entry
// point (and its callees) actually reach, which statements after an
// unconditional control transfer are unreachable, and which struct members
// serve as shader stage inputs vs. outputs. Grounded on ir/validate.go's
// graph-traversal-with-flags shape (teacher), adapted from IR-handle
// traversal to AST-pointer traversal.
package reference

import "github.com/gogpu/xsc/hlsl"

// Analyzer walks a bound Program from its entry point, tagging every
// reached declaration with FlagReachable and computing dead-code and
// shader-input/output flags.
type Analyzer struct {
	prog    *hlsl.Program
	visited map[*hlsl.FunctionDeclStmt]bool
}

// Analyze runs reachability analysis over prog starting from its entry
// point function (and secondary entry point, for tessellation control's
// patch-constant function). Unreached functions, structs, buffers, and
// samplers are left without FlagReachable set; callers may choose to omit
// them from emission.
func Analyze(prog *hlsl.Program) {
	a := &Analyzer{prog: prog, visited: make(map[*hlsl.FunctionDeclStmt]bool)}

	entry := a.findFunction(prog.EntryPoint)
	if entry != nil {
		a.walkFunction(entry)
		a.markEntryPointParams(entry)
	}
	if prog.SecondaryEntry != "" {
		if secondary := a.findFunction(prog.SecondaryEntry); secondary != nil {
			a.walkFunction(secondary)
		}
	}

	for _, fn := range prog.Functions {
		if fn.Body != nil {
			markDeadCode(fn.Body)
		}
	}
}

func (a *Analyzer) findFunction(name string) *hlsl.FunctionDeclStmt {
	for _, fn := range a.prog.Functions {
		if fn.Name == name && fn.Body != nil {
			return fn
		}
	}
	return nil
}

// markEntryPointParams flags the entry point's parameters and return value
// as shader input/output per their semantics (spec.md 4.4): a parameter
// with a semantic is a stage input, the return value (and any `out`
// parameter) is a stage output.
func (a *Analyzer) markEntryPointParams(entry *hlsl.FunctionDeclStmt) {
	entry.Flags |= hlsl.FlagReachable
	for _, p := range entry.Params {
		switch p.Storage {
		case hlsl.StorageOut:
			p.Flags |= hlsl.FlagShaderOutput | hlsl.FlagReachable
		case hlsl.StorageInOut:
			p.Flags |= hlsl.FlagShaderInput | hlsl.FlagShaderOutput | hlsl.FlagReachable
		default:
			p.Flags |= hlsl.FlagShaderInput | hlsl.FlagReachable
		}
		markStructIO(p.Type, p.Storage)
	}
	if entry.ReturnType != nil {
		markStructIO(entry.ReturnType, hlsl.StorageOut)
	}
}

// markStructIO tags a struct's members as shader input/output when spec
// names a struct type used at the entry point boundary, so convert's
// struct-flattening step (spec.md 4.5) knows which members need
// interface-block declarations.
func markStructIO(spec *hlsl.TypeSpecifier, storage hlsl.StorageClass) {
	if spec == nil || spec.Resolved.Tag != hlsl.DenoterStruct || spec.Resolved.StructRef == nil {
		return
	}
	bit := hlsl.FlagShaderInput
	if storage == hlsl.StorageOut {
		bit = hlsl.FlagShaderOutput
	}
	for s := spec.Resolved.StructRef; s != nil; s = s.BaseRef {
		for _, m := range s.Members {
			m.Flags |= bit | hlsl.FlagReachable
		}
	}
}

// walkFunction marks fn reachable and recurses into every function it
// calls, every struct/buffer/sampler type it references, and every
// intrinsic it invokes (already collected into Program.UsedIntrinsics by
// resolve.Bind, so walkFunction only needs to mark fn itself and recurse
// through call suffixes to user-defined callees).
func (a *Analyzer) walkFunction(fn *hlsl.FunctionDeclStmt) {
	if fn == nil || a.visited[fn] {
		return
	}
	a.visited[fn] = true
	fn.Flags |= hlsl.FlagReachable

	for _, p := range fn.Params {
		a.markType(p.Type)
	}
	a.markType(fn.ReturnType)

	if fn.Body != nil {
		a.walkBlock(fn.Body)
	}
}

func (a *Analyzer) walkBlock(block *hlsl.CodeBlock) {
	for _, stmt := range block.Stmts {
		a.walkStmt(stmt)
	}
}

func (a *Analyzer) walkStmt(stmt hlsl.Stmt) {
	switch st := stmt.(type) {
	case *hlsl.VarDeclStmt:
		for _, v := range st.Decls {
			a.markType(v.Type)
			a.walkExpr(v.Init)
		}
	case *hlsl.CodeBlockStmt:
		a.walkBlock(st.Body)
	case *hlsl.IfStmt:
		a.walkExpr(st.Cond)
		a.walkBlock(st.Then)
		if st.Else != nil {
			a.walkElse(st.Else)
		}
	case *hlsl.ForStmt:
		if st.Init != nil {
			a.walkStmt(st.Init)
		}
		a.walkExpr(st.Cond)
		a.walkExpr(st.Iter)
		a.walkBlock(st.Body)
	case *hlsl.WhileStmt:
		a.walkExpr(st.Cond)
		a.walkBlock(st.Body)
	case *hlsl.DoWhileStmt:
		a.walkBlock(st.Body)
		a.walkExpr(st.Cond)
	case *hlsl.SwitchStmt:
		a.walkExpr(st.Sel)
		for _, c := range st.Cases {
			a.walkExpr(c.Value)
			for _, cs := range c.Body {
				a.walkStmt(cs)
			}
		}
	case *hlsl.ExprStmt:
		a.walkExpr(st.Expr)
	case *hlsl.ReturnStmt:
		a.walkExpr(st.Value)
	}
}

func (a *Analyzer) walkElse(e *hlsl.ElseStmt) {
	if e.Nested != nil {
		a.walkExpr(e.Nested.Cond)
		a.walkBlock(e.Nested.Then)
		if e.Nested.Else != nil {
			a.walkElse(e.Nested.Else)
		}
		return
	}
	a.walkBlock(e.Body)
}

func (a *Analyzer) walkExpr(expr hlsl.Expr) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hlsl.ListExpr:
		for _, item := range e.Items {
			a.walkExpr(item)
		}
	case *hlsl.TernaryExpr:
		a.walkExpr(e.Cond)
		a.walkExpr(e.Then)
		a.walkExpr(e.Else)
	case *hlsl.BinaryExpr:
		a.walkExpr(e.LHS)
		a.walkExpr(e.RHS)
	case *hlsl.UnaryExpr:
		a.walkExpr(e.Operand)
	case *hlsl.PostUnaryExpr:
		a.walkExpr(e.Operand)
	case *hlsl.CastExpr:
		a.markType(e.Target)
		a.walkExpr(e.Value)
	case *hlsl.InitializerExpr:
		for _, item := range e.Items {
			a.walkExpr(item)
		}
	case *hlsl.TypeSpecifierExpr:
		a.markType(e.Spec)
	case *hlsl.VarIdent:
		a.markDecl(e.DeclRef)
	case *hlsl.AccessExpr:
		a.walkExpr(e.Prefix)
		for i := range e.Suffixes {
			suf := &e.Suffixes[i]
			a.walkExpr(suf.Index)
			for _, arg := range suf.Args {
				a.walkExpr(arg)
			}
			a.markDecl(suf.DeclRef)
		}
	}
}

// markDecl marks the declaration a reference resolved to reachable,
// recursing into user-defined functions so transitive callees are covered.
func (a *Analyzer) markDecl(d hlsl.Decl) {
	switch decl := d.(type) {
	case *hlsl.FunctionDeclStmt:
		a.walkFunction(decl)
	case *hlsl.VarDecl:
		decl.Flags |= hlsl.FlagReachable
	case *hlsl.ParamDecl:
		decl.Flags |= hlsl.FlagReachable
	case *hlsl.BufferDecl:
		decl.Flags |= hlsl.FlagReachable
	case *hlsl.SamplerDecl:
		decl.Flags |= hlsl.FlagReachable
	case *hlsl.StructDecl:
		decl.Flags |= hlsl.FlagReachable
	}
}

func (a *Analyzer) markType(spec *hlsl.TypeSpecifier) {
	if spec == nil {
		return
	}
	t := spec.Resolved
	for t.Tag == hlsl.DenoterArray && t.ElemType != nil {
		t = *t.ElemType
	}
	if t.Tag == hlsl.DenoterStruct && t.StructRef != nil {
		for s := t.StructRef; s != nil; s = s.BaseRef {
			s.Flags |= hlsl.FlagReachable
		}
	}
}

// markDeadCode flags every statement following an unconditional control
// transfer (return/discard/break/continue) within the same block as dead,
// per spec.md 4.4's "statements unreachable within their own block are
// tagged, not removed".
func markDeadCode(block *hlsl.CodeBlock) {
	terminated := false
	for _, stmt := range block.Stmts {
		if terminated {
			setDead(stmt)
			continue
		}
		recurseDeadCode(stmt)
		if terminatesControlFlow(stmt) {
			terminated = true
		}
	}
}

func recurseDeadCode(stmt hlsl.Stmt) {
	switch st := stmt.(type) {
	case *hlsl.CodeBlockStmt:
		markDeadCode(st.Body)
	case *hlsl.IfStmt:
		markDeadCode(st.Then)
		if st.Else != nil {
			recurseDeadCodeElse(st.Else)
		}
	case *hlsl.ForStmt:
		markDeadCode(st.Body)
	case *hlsl.WhileStmt:
		markDeadCode(st.Body)
	case *hlsl.DoWhileStmt:
		markDeadCode(st.Body)
	case *hlsl.SwitchStmt:
		for _, c := range st.Cases {
			term := false
			for _, cs := range c.Body {
				if term {
					setDead(cs)
					continue
				}
				recurseDeadCode(cs)
				if terminatesControlFlow(cs) {
					term = true
				}
			}
		}
	}
}

func recurseDeadCodeElse(e *hlsl.ElseStmt) {
	if e.Nested != nil {
		markDeadCode(e.Nested.Then)
		if e.Nested.Else != nil {
			recurseDeadCodeElse(e.Nested.Else)
		}
		return
	}
	markDeadCode(e.Body)
}

func terminatesControlFlow(stmt hlsl.Stmt) bool {
	switch st := stmt.(type) {
	case *hlsl.ReturnStmt:
		return true
	case *hlsl.ControlTransferStmt:
		return st.Which == hlsl.ControlBreak || st.Which == hlsl.ControlContinue || st.Which == hlsl.ControlDiscard
	default:
		return false
	}
}

func setDead(stmt hlsl.Stmt) {
	switch st := stmt.(type) {
	case *hlsl.VarDeclStmt:
		for _, v := range st.Decls {
			v.Flags |= hlsl.FlagDeadCode
		}
	case *hlsl.CodeBlockStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.IfStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.ForStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.WhileStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.DoWhileStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.SwitchStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.ExprStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.ReturnStmt:
		st.Flags |= hlsl.FlagDeadCode
	case *hlsl.ControlTransferStmt:
		st.Flags |= hlsl.FlagDeadCode
	}
}
