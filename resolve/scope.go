// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package resolve performs name binding and type derivation over an
// hlsl.Program: it fills in VarIdent.DeclRef, AccessSuffix.DeclRef, struct
// base-struct back-references, alias resolution, and every expression's
// memoized type denoter.
package resolve

import "github.com/gogpu/xsc/hlsl"

// scopeKind distinguishes the five lexical scope levels spec.md 4.3 names:
// global, uniform-buffer, struct, function, code-block.
type scopeKind uint8

const (
	scopeGlobal scopeKind = iota
	scopeUniformBuffer
	scopeStruct
	scopeFunction
	scopeBlock
)

// scope maps identifiers to their declaration within one lexical level.
// Function identifiers map to a slice (overloading is permitted for
// functions only, per spec.md 4.3); every other declaration kind maps to
// exactly one entry, so we store overload lists alongside single decls and
// let lookup prefer whichever is populated.
type scope struct {
	kind      scopeKind
	parent    *scope
	decls     map[string]hlsl.Decl
	functions map[string][]*hlsl.FunctionDeclStmt
}

func newScope(kind scopeKind, parent *scope) *scope {
	return &scope{kind: kind, parent: parent, decls: make(map[string]hlsl.Decl), functions: make(map[string][]*hlsl.FunctionDeclStmt)}
}

func (s *scope) declare(d hlsl.Decl) {
	s.decls[d.Ident()] = d
}

func (s *scope) declareFunction(f *hlsl.FunctionDeclStmt) {
	s.functions[f.Name] = append(s.functions[f.Name], f)
}

// lookup searches s and its ancestors for a plain (non-function)
// declaration.
func (s *scope) lookup(name string) (hlsl.Decl, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.decls[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// lookupFunctions returns every overload of name visible from s.
func (s *scope) lookupFunctions(name string) []*hlsl.FunctionDeclStmt {
	for cur := s; cur != nil; cur = cur.parent {
		if fns, ok := cur.functions[name]; ok {
			return fns
		}
	}
	return nil
}

// memberScope returns the scope exposing the members of t, used to resolve
// the next link of an access chain (`a.b` looks up `b` in `a`'s member
// scope). Returns nil for types with no members (scalars, buffers without
// struct element types).
func memberScope(t hlsl.TypeDenoter) *scope {
	switch t.Tag {
	case hlsl.DenoterStruct:
		if t.StructRef == nil {
			return nil
		}
		s := newScope(scopeStruct, nil)
		walkStructChain(t.StructRef, func(m *hlsl.VarDecl) {
			s.declare(m)
		})
		return s
	case hlsl.DenoterBuffer:
		if t.BufferElem != nil && t.BufferElem.Tag == hlsl.DenoterStruct {
			return memberScope(*t.BufferElem)
		}
		return nil
	default:
		return nil
	}
}

// walkStructChain visits every member of s in base-to-derived order,
// following BaseRef first so a derived member shadows a base member with
// the same name when inserted into a scope afterward (spec.md 4.5's
// struct-inheritance flattening: "B's members inlined ... followed by S's
// own members").
func walkStructChain(s *hlsl.StructDecl, visit func(*hlsl.VarDecl)) {
	if s == nil {
		return
	}
	if s.BaseRef != nil {
		walkStructChain(s.BaseRef, visit)
	}
	for _, m := range s.Members {
		visit(m)
	}
}
