// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resolve

import (
	"github.com/gogpu/xsc/diag"
	"github.com/gogpu/xsc/hlsl"
)

// Binder drives name resolution and type derivation over one Program. It
// owns the scope stack for the duration of Bind and is discarded afterward;
// callers only keep the Program, whose nodes now carry resolved
// TypeDenoters and back-references.
type Binder struct {
	prog    *hlsl.Program
	global  *scope
	source  string
	reports diag.Reports
}

// Bind resolves every declaration and expression in prog, filling
// TypeSpecifier.Resolved, VarIdent/AccessSuffix.DeclRef, StructDecl.BaseRef,
// and every expression's memoized type denoter. Ordering follows spec.md 5's
// guarantee: top-down scope entry, bottom-up type derivation.
func Bind(prog *hlsl.Program, source string) diag.Reports {
	b := &Binder{prog: prog, global: newScope(scopeGlobal, nil), source: source}
	b.declareGlobals()
	b.resolveStructBases()
	b.resolveAliasChains()
	b.resolveAllTypeSpecifiers()
	for _, fn := range prog.Functions {
		b.bindFunction(fn)
	}
	return b.reports
}

func (b *Binder) errorf(area hlsl.Area, format string, args ...any) {
	b.reports.Addf(area.ToDiag(), b.source, format, args...)
}

func (b *Binder) declareGlobals() {
	for _, s := range b.prog.Structs {
		b.global.declare(s)
	}
	for _, a := range b.prog.Aliases {
		b.global.declare(a)
	}
	for _, buf := range b.prog.Buffers {
		b.global.declare(buf)
	}
	for _, smp := range b.prog.Samplers {
		b.global.declare(smp)
	}
	for _, v := range b.prog.Globals {
		b.global.declare(v)
	}
	for _, ub := range b.prog.UniformBuffers {
		for _, m := range ub.Members {
			b.global.declare(m)
		}
	}
	for _, fn := range b.prog.Functions {
		b.global.declareFunction(fn)
	}
}

// resolveStructBases links StructDecl.BaseRef from BaseName and rejects
// inheritance cycles (spec.md 3.4 invariant, checked during binding).
func (b *Binder) resolveStructBases() {
	byName := make(map[string]*hlsl.StructDecl, len(b.prog.Structs))
	for _, s := range b.prog.Structs {
		byName[s.Name] = s
	}
	for _, s := range b.prog.Structs {
		if s.BaseName == "" {
			continue
		}
		base, ok := byName[s.BaseName]
		if !ok {
			b.errorf(s.Area, "struct %q inherits from undeclared struct %q", s.Name, s.BaseName)
			continue
		}
		s.BaseRef = base
	}
	for _, s := range b.prog.Structs {
		visited := map[*hlsl.StructDecl]bool{}
		for cur := s; cur != nil; cur = cur.BaseRef {
			if visited[cur] {
				b.errorf(s.Area, "cyclic struct inheritance involving %q", s.Name)
				s.BaseRef = nil
				break
			}
			visited[cur] = true
		}
	}
}

// resolveAliasChains verifies typedef chains terminate (spec.md 3.4
// invariant: "alias chains are acyclic"); actual transparent resolution
// happens on demand in resolveTypeSpec.
func (b *Binder) resolveAliasChains() {
	byName := make(map[string]*hlsl.AliasDecl, len(b.prog.Aliases))
	for _, a := range b.prog.Aliases {
		byName[a.Name] = a
	}
	for _, a := range b.prog.Aliases {
		visited := map[*hlsl.AliasDecl]bool{}
		cur := a
		for cur != nil {
			if visited[cur] {
				b.errorf(a.Area, "cyclic type alias involving %q", a.Name)
				break
			}
			visited[cur] = true
			if cur.Type == nil {
				break
			}
			next, ok := byName[cur.Type.Name]
			if !ok {
				break
			}
			cur = next
		}
	}
}

// resolveAllTypeSpecifiers fills TypeSpecifier.Resolved for every type
// reference reachable from declarations (globals, struct members, uniform
// buffer members, function parameters and return types). Local variable
// specifiers are resolved during bindFunction, once scopes include locals
// declared earlier in the same block.
func (b *Binder) resolveAllTypeSpecifiers() {
	for _, s := range b.prog.Structs {
		for _, m := range s.Members {
			b.resolveTypeSpec(m.Type)
		}
	}
	for _, a := range b.prog.Aliases {
		b.resolveTypeSpec(a.Type)
	}
	for _, v := range b.prog.Globals {
		b.resolveTypeSpec(v.Type)
	}
	for _, buf := range b.prog.Buffers {
		if buf.ElemType != nil {
			b.resolveTypeSpec(buf.ElemType)
		}
	}
	for _, ub := range b.prog.UniformBuffers {
		for _, m := range ub.Members {
			b.resolveTypeSpec(m.Type)
		}
	}
	for _, fn := range b.prog.Functions {
		for _, p := range fn.Params {
			b.resolveTypeSpec(p.Type)
		}
		if fn.ReturnType != nil {
			b.resolveTypeSpec(fn.ReturnType)
		}
	}
}

// resolveTypeSpec resolves a single TypeSpecifier's Resolved TypeDenoter
// from its recorded spelling: a built-in base type, a buffer/sampler kind,
// or a user-declared struct/alias name, wrapped in Array denoters for any
// recorded dimensions (innermost first, matching declaration order).
func (b *Binder) resolveTypeSpec(spec *hlsl.TypeSpecifier) hlsl.TypeDenoter {
	if spec == nil {
		return hlsl.TypeDenoter{}
	}
	var denoter hlsl.TypeDenoter
	switch {
	case spec.Name == "void" || spec.Name == "":
		denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterVoid}
	case isBuiltinTypeName(spec.Name):
		base, _ := lookupBuiltinTypeExported(spec.Name)
		denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: base}
	case func() bool { _, ok := hlsl.LookupBufferType(spec.Name); return ok }():
		kind, _ := hlsl.LookupBufferType(spec.Name)
		denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterBuffer, BufferKind: kind}
	case func() bool { _, ok := hlsl.LookupSamplerType(spec.Name); return ok }():
		kind, _ := hlsl.LookupSamplerType(spec.Name)
		denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterSampler, SamplerKind: kind}
	default:
		if d, ok := b.global.lookup(spec.Name); ok {
			switch decl := d.(type) {
			case *hlsl.StructDecl:
				denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterStruct, StructRef: decl}
			case *hlsl.AliasDecl:
				denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterAlias, AliasRef: decl}
			default:
				b.errorf(spec.Area, "%q does not name a type", spec.Name)
			}
		} else {
			b.errorf(spec.Area, "undeclared type %q", spec.Name)
		}
	}

	for i := len(spec.Dimensions) - 1; i >= 0; i-- {
		elem := denoter
		denoter = hlsl.TypeDenoter{Tag: hlsl.DenoterArray, ElemType: &elem, ArrayDims: []int{spec.Dimensions[i].Size}}
	}
	spec.Resolved = denoter
	return denoter
}

func (b *Binder) bindFunction(fn *hlsl.FunctionDeclStmt) {
	fnScope := newScope(scopeFunction, b.global)
	for _, p := range fn.Params {
		fnScope.declare(p)
	}
	if fn.Body == nil {
		return
	}
	blockScope := newScope(scopeBlock, fnScope)
	b.bindBlock(fn.Body, blockScope)
}

func (b *Binder) bindBlock(block *hlsl.CodeBlock, parent *scope) {
	s := newScope(scopeBlock, parent)
	for _, stmt := range block.Stmts {
		b.bindStmt(stmt, s)
	}
}

func (b *Binder) bindStmt(stmt hlsl.Stmt, s *scope) {
	switch st := stmt.(type) {
	case *hlsl.VarDeclStmt:
		for _, v := range st.Decls {
			b.resolveTypeSpec(v.Type)
			s.declare(v)
			if v.Init != nil {
				b.deriveType(v.Init, s)
			}
		}
	case *hlsl.CodeBlockStmt:
		b.bindBlock(st.Body, s)
	case *hlsl.IfStmt:
		b.deriveType(st.Cond, s)
		b.bindBlock(st.Then, s)
		if st.Else != nil {
			b.bindElse(st.Else, s)
		}
	case *hlsl.ForStmt:
		inner := newScope(scopeBlock, s)
		if st.Init != nil {
			b.bindStmt(st.Init, inner)
		}
		if st.Cond != nil {
			b.deriveType(st.Cond, inner)
		}
		if st.Iter != nil {
			b.deriveType(st.Iter, inner)
		}
		b.bindBlock(st.Body, inner)
	case *hlsl.WhileStmt:
		b.deriveType(st.Cond, s)
		b.bindBlock(st.Body, s)
	case *hlsl.DoWhileStmt:
		b.bindBlock(st.Body, s)
		b.deriveType(st.Cond, s)
	case *hlsl.SwitchStmt:
		b.deriveType(st.Sel, s)
		for _, c := range st.Cases {
			if c.Value != nil {
				b.deriveType(c.Value, s)
			}
			for _, cs := range c.Body {
				b.bindStmt(cs, s)
			}
		}
	case *hlsl.ExprStmt:
		b.deriveType(st.Expr, s)
	case *hlsl.ReturnStmt:
		if st.Value != nil {
			b.deriveType(st.Value, s)
		}
	case *hlsl.StructDeclStmt:
		s.declare(st.Decl)
	case *hlsl.AliasDeclStmt:
		s.declare(st.Decl)
		b.resolveTypeSpec(st.Decl.Type)
	}
}

func (b *Binder) bindElse(e *hlsl.ElseStmt, s *scope) {
	if e.Nested != nil {
		b.deriveType(e.Nested.Cond, s)
		b.bindBlock(e.Nested.Then, s)
		if e.Nested.Else != nil {
			b.bindElse(e.Nested.Else, s)
		}
		return
	}
	b.bindBlock(e.Body, s)
}

// isBuiltinTypeName and lookupBuiltinTypeExported wrap hlsl.LookupBuiltinType;
// resolve needs the same combinatorial name parsing the parser uses for
// cast/constructor disambiguation.
func isBuiltinTypeName(name string) bool {
	_, ok := hlsl.LookupBuiltinType(name)
	return ok
}

func lookupBuiltinTypeExported(name string) (hlsl.DataType, bool) {
	return hlsl.LookupBuiltinType(name)
}
