// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package resolve

import (
	"github.com/gogpu/xsc/hlsl"
)

// deriveType computes and memoizes (via Expr.SetType) the type denoter of
// expr, resolving any identifier/member/call references it contains along
// the way. Scope s is the lexical scope expr is evaluated in. Returns the
// derived type so callers composing expressions (binary operands, call
// arguments) don't need a second pass.
func (b *Binder) deriveType(expr hlsl.Expr, s *scope) hlsl.TypeDenoter {
	if expr == nil {
		return hlsl.TypeDenoter{}
	}
	switch e := expr.(type) {
	case *hlsl.NullExpr:
		return e.Type()
	case *hlsl.ListExpr:
		var last hlsl.TypeDenoter
		for _, item := range e.Items {
			last = b.deriveType(item, s)
		}
		e.SetType(last)
		return last
	case *hlsl.LiteralExpr:
		t := literalType(e.Tok)
		e.SetType(t)
		return t
	case *hlsl.TypeSpecifierExpr:
		t := b.resolveTypeSpec(e.Spec)
		e.SetType(t)
		return t
	case *hlsl.TernaryExpr:
		b.deriveType(e.Cond, s)
		thenT := b.deriveType(e.Then, s)
		b.deriveType(e.Else, s)
		e.SetType(thenT)
		return thenT
	case *hlsl.BinaryExpr:
		return b.deriveBinary(e, s)
	case *hlsl.UnaryExpr:
		t := b.deriveType(e.Operand, s)
		e.SetType(t)
		return t
	case *hlsl.PostUnaryExpr:
		t := b.deriveType(e.Operand, s)
		e.SetType(t)
		return t
	case *hlsl.CastExpr:
		b.deriveType(e.Value, s)
		t := b.resolveTypeSpec(e.Target)
		e.SetType(t)
		return t
	case *hlsl.InitializerExpr:
		for _, item := range e.Items {
			b.deriveType(item, s)
		}
		// An initializer list's own type is only known from its usage
		// context (the declared type it initializes); leave it untyped here.
		return e.Type()
	case *hlsl.AccessExpr:
		return b.deriveAccess(e, s)
	default:
		return hlsl.TypeDenoter{}
	}
}

// literalType maps a literal token to its data type per its lexeme suffix:
// u/U -> uint, f/F -> float, h/H -> half, otherwise integers stay int and
// unsuffixed float-form literals default to double.
func literalType(tok hlsl.Token) hlsl.TypeDenoter {
	base := hlsl.Int
	switch {
	case tok.Kind == hlsl.TokenBoolLiteral:
		base = hlsl.Bool
	case tok.Kind == hlsl.TokenStringLiteral:
		return hlsl.TypeDenoter{}
	case tok.Suffix == hlsl.SuffixUnsigned:
		base = hlsl.UInt
	case tok.Suffix == hlsl.SuffixFloat:
		base = hlsl.Float
	case tok.Suffix == hlsl.SuffixHalf:
		base = hlsl.Half
	case tok.Kind == hlsl.TokenFloatLiteral:
		base = hlsl.Double
	case tok.Kind == hlsl.TokenIntLiteral:
		base = hlsl.Int
	}
	return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: base}
}

// deriveBinary derives a BinaryExpr's type. Assignment operators (including
// compound assigns) take the LHS's type, matching HLSL's assignment-
// expression-yields-assignee-type rule; comparisons and logical operators
// yield bool (broadcast to the operand shape for vector comparisons);
// arithmetic operators yield the wider of the two operand shapes.
func (b *Binder) deriveBinary(e *hlsl.BinaryExpr, s *scope) hlsl.TypeDenoter {
	lhs := b.deriveType(e.LHS, s)
	rhs := b.deriveType(e.RHS, s)

	if isAssignOp(e.Op) {
		e.SetType(lhs)
		return lhs
	}

	if isComparisonOp(e.Op) || isLogicalOp(e.Op) {
		result := boolResultType(lhs, rhs)
		e.SetType(result)
		return result
	}

	result := arithmeticResultType(lhs, rhs)
	e.SetType(result)
	return result
}

func isAssignOp(op hlsl.BinaryOp) bool {
	switch op {
	case hlsl.OpAssign, hlsl.OpAddAssign, hlsl.OpSubAssign, hlsl.OpMulAssign,
		hlsl.OpDivAssign, hlsl.OpModAssign, hlsl.OpAndAssign, hlsl.OpOrAssign,
		hlsl.OpXorAssign, hlsl.OpShlAssign, hlsl.OpShrAssign:
		return true
	default:
		return false
	}
}

func isComparisonOp(op hlsl.BinaryOp) bool {
	switch op {
	case hlsl.OpEqual, hlsl.OpNotEqual, hlsl.OpLess, hlsl.OpLessEqual,
		hlsl.OpGreater, hlsl.OpGreaterEqual:
		return true
	default:
		return false
	}
}

func isLogicalOp(op hlsl.BinaryOp) bool {
	return op == hlsl.OpLogicalAnd || op == hlsl.OpLogicalOr
}

// boolResultType yields bool, broadcast to whichever operand has the wider
// vector/matrix shape (HLSL comparisons are componentwise over vectors).
func boolResultType(lhs, rhs hlsl.TypeDenoter) hlsl.TypeDenoter {
	shape := lhs
	if lhs.Tag != hlsl.DenoterBase || (rhs.Tag == hlsl.DenoterBase && !rhs.Base.IsScalar()) {
		shape = rhs
	}
	if shape.Tag != hlsl.DenoterBase {
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.Bool}
	}
	switch {
	case shape.Base.IsVector():
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.VectorDataType(hlsl.Bool, hlsl.VectorSize(shape.Base))}
	case shape.Base.IsMatrix():
		r, c := hlsl.MatrixDims(shape.Base)
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.MatrixDataType(hlsl.Bool, r, c)}
	default:
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.Bool}
	}
}

// arithmeticResultType applies HLSL's numeric-promotion rule: the wider base
// type wins, and a scalar operand broadcasts to the other operand's vector/
// matrix shape. Non-base operands (structs, arrays) pass the LHS through
// unchanged; full struct-arithmetic legality is checked elsewhere.
func arithmeticResultType(lhs, rhs hlsl.TypeDenoter) hlsl.TypeDenoter {
	if lhs.Tag != hlsl.DenoterBase || rhs.Tag != hlsl.DenoterBase {
		return lhs
	}
	lBase, rBase := hlsl.BaseDataType(lhs.Base), hlsl.BaseDataType(rhs.Base)
	wide := lBase
	if baseRank(rBase) > baseRank(lBase) {
		wide = rBase
	}

	shape := lhs.Base
	if lhs.Base.IsScalar() && !rhs.Base.IsScalar() {
		shape = rhs.Base
	}

	switch {
	case shape.IsVector():
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.VectorDataType(wide, hlsl.VectorSize(shape))}
	case shape.IsMatrix():
		r, c := hlsl.MatrixDims(shape)
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.MatrixDataType(wide, r, c)}
	default:
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: wide}
	}
}

// deriveAccess resolves and types an access chain's Prefix and each
// Suffix in order, carrying the running type forward: a member suffix
// narrows to a struct field or a swizzle/subscript projection, an index
// suffix narrows to the element type, and a call suffix (nil Prefix)
// resolves a built-in type constructor or a user function overload, or
// records an intrinsic use when no function of that name is declared.
func (b *Binder) deriveAccess(e *hlsl.AccessExpr, s *scope) hlsl.TypeDenoter {
	var cur hlsl.TypeDenoter
	var curScope *scope

	if e.Prefix != nil {
		if id, ok := e.Prefix.(*hlsl.VarIdent); ok {
			cur = b.resolveVarIdent(id, s)
		} else {
			cur = b.deriveType(e.Prefix, s)
		}
		curScope = memberScope(cur)
	}

	for i := range e.Suffixes {
		suf := &e.Suffixes[i]
		switch suf.Kind {
		case hlsl.AccessMember:
			cur, curScope = b.deriveMember(cur, curScope, suf)
		case hlsl.AccessIndex:
			idxType := b.deriveType(suf.Index, s)
			if idxType.Tag == hlsl.DenoterBase && !idxType.Base.IsIntegral() {
				b.errorf(suf.Area, "array index must be an integral type, got %s", idxType.Base)
			}
			cur = elementType(cur)
			curScope = memberScope(cur)
		case hlsl.AccessCall:
			cur = b.deriveCall(e, suf, s)
			curScope = memberScope(cur)
		}
	}

	e.SetType(cur)
	return cur
}

// resolveVarIdent looks up id in s, filling DeclRef and deriving its type
// from the declaration's resolved TypeSpecifier.
func (b *Binder) resolveVarIdent(id *hlsl.VarIdent, s *scope) hlsl.TypeDenoter {
	d, ok := s.lookup(id.Name)
	if !ok {
		b.errorf(id.Area, "undeclared identifier %q", id.Name)
		return hlsl.TypeDenoter{}
	}
	id.DeclRef = d
	t := declType(d)
	id.SetType(t)
	return t
}

// declType returns the resolved type denoter a declaration holds, for
// every Decl variant that carries a value type.
func declType(d hlsl.Decl) hlsl.TypeDenoter {
	switch v := d.(type) {
	case *hlsl.VarDecl:
		if v.Type != nil {
			return v.Type.Resolved
		}
	case *hlsl.ParamDecl:
		if v.Type != nil {
			return v.Type.Resolved
		}
	case *hlsl.BufferDecl:
		elem := v.ElemType
		denoter := hlsl.TypeDenoter{Tag: hlsl.DenoterBuffer, BufferKind: v.BufferKind}
		if elem != nil {
			r := elem.Resolved
			denoter.BufferElem = &r
		}
		return denoter
	case *hlsl.SamplerDecl:
		return hlsl.TypeDenoter{Tag: hlsl.DenoterSampler, SamplerKind: v.SamplerKind}
	}
	return hlsl.TypeDenoter{}
}

// deriveMember resolves a `.name` suffix: a struct field lookup through
// curScope, or a vector/matrix swizzle-or-subscript when cur has no member
// scope (curScope is nil for scalars, vectors, matrices).
func (b *Binder) deriveMember(cur hlsl.TypeDenoter, curScope *scope, suf *hlsl.AccessSuffix) (hlsl.TypeDenoter, *scope) {
	if curScope != nil {
		d, ok := curScope.lookup(suf.Name)
		if !ok {
			b.errorf(suf.Area, "no member %q on this type", suf.Name)
			return hlsl.TypeDenoter{}, nil
		}
		suf.DeclRef = d
		t := declType(d)
		return t, memberScope(t)
	}
	if cur.Tag == hlsl.DenoterBase && (cur.Base.IsVector() || cur.Base.IsMatrix()) {
		t, err := hlsl.SubscriptDataType(cur.Base, suf.Name)
		if err != nil {
			b.errorf(suf.Area, "%s", err)
			return hlsl.TypeDenoter{}, nil
		}
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: t}, nil
	}
	b.errorf(suf.Area, "cannot access member %q on this type", suf.Name)
	return hlsl.TypeDenoter{}, nil
}

// elementType unwraps one level of array nesting, or the scalar component
// of a vector/matrix when indexing in place of a true array.
func elementType(t hlsl.TypeDenoter) hlsl.TypeDenoter {
	switch {
	case t.Tag == hlsl.DenoterArray && t.ElemType != nil:
		return *t.ElemType
	case t.Tag == hlsl.DenoterBase && t.Base.IsVector():
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.BaseDataType(t.Base)}
	case t.Tag == hlsl.DenoterBase && t.Base.IsMatrix():
		_, c := hlsl.MatrixDims(t.Base)
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.VectorDataType(hlsl.BaseDataType(t.Base), c)}
	default:
		return t
	}
}

// deriveCall types a call suffix: a free function/constructor call when
// e.Prefix is nil, or a method-like call otherwise (reserved for future
// buffer/sampler methods; HLSL's own intrinsics are resolved as free calls
// against the global scope by name).
func (b *Binder) deriveCall(e *hlsl.AccessExpr, suf *hlsl.AccessSuffix, s *scope) hlsl.TypeDenoter {
	argTypes := make([]hlsl.TypeDenoter, len(suf.Args))
	for i, arg := range suf.Args {
		argTypes[i] = b.deriveType(arg, s)
	}

	if e.Prefix != nil {
		// Method-style call on a buffer/sampler/struct value; no built-in
		// method signatures are modeled here, so leave untyped.
		return hlsl.TypeDenoter{}
	}

	name := suf.Name
	if base, ok := hlsl.LookupBuiltinType(name); ok {
		return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: base}
	}

	candidates := s.lookupFunctions(name)
	if len(candidates) == 0 {
		b.prog.UsedIntrinsics[hlsl.IntrinsicKey{Name: name, Args: argSignature(argTypes)}] = struct{}{}
		return hlsl.TypeDenoter{}
	}

	fn, ok := ResolveOverload(candidates, argTypes)
	if !ok {
		b.errorf(suf.Area, "no matching overload of %q for the given arguments", name)
		return hlsl.TypeDenoter{}
	}
	suf.DeclRef = fn
	if fn.ReturnType != nil {
		return fn.ReturnType.Resolved
	}
	return hlsl.TypeDenoter{}
}

func argSignature(args []hlsl.TypeDenoter) string {
	sig := ""
	for i, a := range args {
		if i > 0 {
			sig += ","
		}
		sig += a.String()
	}
	return sig
}
