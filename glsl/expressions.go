// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/hlsl"
)

// writeExpr renders e as GLSL source text. Unlike the teacher's flat-arena
// IR, which bakes a subexpression to a named temporary whenever it needs
// reuse (namedExpressions/needBakeExpression/bakeExpression), every
// expression here is a tree node reached by pointer, so printing is a plain
// recursive walk with no baking pass at all.
func (w *Writer) writeExpr(e hlsl.Expr) (string, error) {
	switch n := e.(type) {
	case *hlsl.NullExpr:
		return "", nil
	case *hlsl.ListExpr:
		return w.writeList(n.Items)
	case *hlsl.LiteralExpr:
		return w.writeLiteralToken(n.Tok)
	case *hlsl.TypeSpecifierExpr:
		return w.typeDenoterToGLSL(n.Spec.Resolved), nil
	case *hlsl.TernaryExpr:
		return w.writeTernaryExpr(n)
	case *hlsl.BinaryExpr:
		return w.writeBinaryExpr(n)
	case *hlsl.UnaryExpr:
		return w.writeUnaryExpr(n)
	case *hlsl.PostUnaryExpr:
		return w.writePostUnaryExpr(n)
	case *hlsl.VarIdent:
		return w.writeVarIdent(n)
	case *hlsl.AccessExpr:
		return w.writeAccessExpr(n)
	case *hlsl.CastExpr:
		return w.writeCastExpr(n)
	case *hlsl.InitializerExpr:
		return w.writeInitializerExpr(n)
	default:
		return "", fmt.Errorf("glsl: unsupported expression %T", e)
	}
}

func isNullExpr(e hlsl.Expr) bool {
	_, ok := e.(*hlsl.NullExpr)
	return ok
}

func (w *Writer) writeList(items []hlsl.Expr) (string, error) {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s, err := w.writeExpr(it)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// identText substitutes an entry-point-planned gl_* builtin or top-level
// in/out name for declRef when one was planned (see entry.go's ioByDecl),
// otherwise falls back to the plain escaped identifier.
func (w *Writer) identText(name string, declRef hlsl.Decl) string {
	if declRef != nil {
		if b, ok := w.ioByDecl[declRef]; ok {
			return w.builtinRef(b)
		}
	}
	return escapeKeyword(name)
}

func (w *Writer) writeVarIdent(n *hlsl.VarIdent) (string, error) {
	return w.identText(n.Name, n.DeclRef), nil
}

func (w *Writer) writeTernaryExpr(n *hlsl.TernaryExpr) (string, error) {
	cond, err := w.writeExpr(n.Cond)
	if err != nil {
		return "", err
	}
	then, err := w.writeExpr(n.Then)
	if err != nil {
		return "", err
	}
	els, err := w.writeExpr(n.Else)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s ? %s : %s)", cond, then, els), nil
}

var binaryOpText = map[hlsl.BinaryOp]string{
	hlsl.OpAdd: "+", hlsl.OpSub: "-", hlsl.OpMul: "*", hlsl.OpDiv: "/", hlsl.OpMod: "%",
	hlsl.OpAnd: "&", hlsl.OpOr: "|", hlsl.OpXor: "^", hlsl.OpShl: "<<", hlsl.OpShr: ">>",
	hlsl.OpLogicalAnd: "&&", hlsl.OpLogicalOr: "||",
	hlsl.OpEqual: "==", hlsl.OpNotEqual: "!=",
	hlsl.OpLess: "<", hlsl.OpLessEqual: "<=", hlsl.OpGreater: ">", hlsl.OpGreaterEqual: ">=",
	hlsl.OpAssign: "=", hlsl.OpAddAssign: "+=", hlsl.OpSubAssign: "-=", hlsl.OpMulAssign: "*=",
	hlsl.OpDivAssign: "/=", hlsl.OpModAssign: "%=", hlsl.OpAndAssign: "&=", hlsl.OpOrAssign: "|=",
	hlsl.OpXorAssign: "^=", hlsl.OpShlAssign: "<<=", hlsl.OpShrAssign: ">>=",
}

func isCompoundAssign(op hlsl.BinaryOp) bool {
	switch op {
	case hlsl.OpAssign, hlsl.OpAddAssign, hlsl.OpSubAssign, hlsl.OpMulAssign, hlsl.OpDivAssign, hlsl.OpModAssign,
		hlsl.OpAndAssign, hlsl.OpOrAssign, hlsl.OpXorAssign, hlsl.OpShlAssign, hlsl.OpShrAssign:
		return true
	default:
		return false
	}
}

// writeBinaryExpr prints lhs op rhs. A plain `*` between HLSL operands is
// always component-wise (matrix-aware multiply is spelled mul(), handled as
// an intrinsic rewrite in writeIntrinsicCall). GLSL's `*` is component-wise
// too except between two matrices, where it is a linear-algebra product, so
// a `*` with two matrix operands is emitted as matrixCompMult instead.
func (w *Writer) writeBinaryExpr(n *hlsl.BinaryExpr) (string, error) {
	op, ok := binaryOpText[n.Op]
	if !ok {
		return "", fmt.Errorf("glsl: unsupported binary operator %v", n.Op)
	}
	lhs, err := w.writeExpr(n.LHS)
	if err != nil {
		return "", err
	}
	rhs, err := w.writeExpr(n.RHS)
	if err != nil {
		return "", err
	}
	if n.Op == hlsl.OpMul && n.LHS.Type().IsMatrix() && n.RHS.Type().IsMatrix() {
		return fmt.Sprintf("matrixCompMult(%s, %s)", lhs, rhs), nil
	}
	if isCompoundAssign(n.Op) {
		return fmt.Sprintf("%s %s %s", lhs, op, rhs), nil
	}
	return fmt.Sprintf("(%s %s %s)", lhs, op, rhs), nil
}

var unaryOpText = map[hlsl.UnaryOp]string{
	hlsl.OpNeg: "-", hlsl.OpPos: "+", hlsl.OpNot: "!", hlsl.OpBitNot: "~",
}

func (w *Writer) writeUnaryExpr(n *hlsl.UnaryExpr) (string, error) {
	operand, err := w.writeExpr(n.Operand)
	if err != nil {
		return "", err
	}
	switch n.Op {
	case hlsl.OpPreInc:
		return fmt.Sprintf("(++%s)", operand), nil
	case hlsl.OpPreDec:
		return fmt.Sprintf("(--%s)", operand), nil
	default:
		sym, ok := unaryOpText[n.Op]
		if !ok {
			return "", fmt.Errorf("glsl: unsupported unary operator %v", n.Op)
		}
		return fmt.Sprintf("(%s%s)", sym, operand), nil
	}
}

func (w *Writer) writePostUnaryExpr(n *hlsl.PostUnaryExpr) (string, error) {
	operand, err := w.writeExpr(n.Operand)
	if err != nil {
		return "", err
	}
	if n.Op == hlsl.OpPostInc {
		return fmt.Sprintf("(%s++)", operand), nil
	}
	return fmt.Sprintf("(%s--)", operand), nil
}

func (w *Writer) writeCastExpr(n *hlsl.CastExpr) (string, error) {
	value, err := w.writeExpr(n.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", w.typeDenoterToGLSL(n.Target.Resolved), value), nil
}

func (w *Writer) writeInitializerExpr(n *hlsl.InitializerExpr) (string, error) {
	items, err := w.writeList(n.Items)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", w.typeDenoterToGLSL(n.Type()), items), nil
}

// writeAccessExpr walks one consolidated access chain: a Prefix (nil for a
// free-standing call, see writeFreeCall) followed by an ordered Suffixes
// list of member/index/call links. A member suffix whose declaration was
// planned as an entry-point I/O binding collapses the whole prefix chain
// into the bound gl_* or top-level name instead of printing a `.field`.
func (w *Writer) writeAccessExpr(n *hlsl.AccessExpr) (string, error) {
	if n.Prefix == nil {
		return w.writeFreeCall(n.Suffixes)
	}
	text, err := w.writeExpr(n.Prefix)
	if err != nil {
		return "", err
	}
	declRef := prefixDeclRef(n.Prefix)
	for i := range n.Suffixes {
		suf := &n.Suffixes[i]
		switch suf.Kind {
		case hlsl.AccessMember:
			if suf.DeclRef != nil {
				if b, ok := w.ioByDecl[suf.DeclRef]; ok {
					text = w.builtinRef(b)
					declRef = suf.DeclRef
					continue
				}
			}
			text = text + "." + escapeKeyword(suf.Name)
			declRef = suf.DeclRef
		case hlsl.AccessIndex:
			idx, err := w.writeExpr(suf.Index)
			if err != nil {
				return "", err
			}
			text = w.indexText(text, declRef, idx)
			declRef = nil
		case hlsl.AccessCall:
			text, err = w.writeMethodCall(text, declRef, suf.Name, suf.Args)
			if err != nil {
				return "", err
			}
			declRef = nil
		}
	}
	return text, nil
}

func prefixDeclRef(e hlsl.Expr) hlsl.Decl {
	if v, ok := e.(*hlsl.VarIdent); ok {
		return v.DeclRef
	}
	return nil
}

// indexText renders a `[idx]` access, rewriting indexing into a generic
// Buffer<T> (HLSL's read-only typed buffer object) as texelFetch, since
// GLSL has no direct indexing syntax for a samplerBuffer.
func (w *Writer) indexText(receiver string, declRef hlsl.Decl, idx string) string {
	if bd, ok := declRef.(*hlsl.BufferDecl); ok && bd.BufferKind == hlsl.BufferGeneric {
		return fmt.Sprintf("texelFetch(%s, %s, 0)", receiver, idx)
	}
	return fmt.Sprintf("%s[%s]", receiver, idx)
}

// writeFreeCall renders a Prefix==nil AccessExpr: a type constructor, an
// intrinsic, or an ordinary user function call, optionally followed by
// further suffixes (e.g. a swizzle on a constructor's result).
func (w *Writer) writeFreeCall(suffixes []hlsl.AccessSuffix) (string, error) {
	if len(suffixes) == 0 || suffixes[0].Kind != hlsl.AccessCall {
		return "", fmt.Errorf("glsl: malformed call expression")
	}
	first := suffixes[0]
	text, err := w.callText(first.Name, first.Args)
	if err != nil {
		return "", err
	}
	var declRef hlsl.Decl
	for i := 1; i < len(suffixes); i++ {
		suf := &suffixes[i]
		switch suf.Kind {
		case hlsl.AccessMember:
			text = text + "." + escapeKeyword(suf.Name)
			declRef = suf.DeclRef
		case hlsl.AccessIndex:
			idx, err := w.writeExpr(suf.Index)
			if err != nil {
				return "", err
			}
			text = w.indexText(text, declRef, idx)
			declRef = nil
		case hlsl.AccessCall:
			text, err = w.writeMethodCall(text, declRef, suf.Name, suf.Args)
			if err != nil {
				return "", err
			}
			declRef = nil
		}
	}
	return text, nil
}

func (w *Writer) callText(name string, args []hlsl.Expr) (string, error) {
	if dt, ok := hlsl.LookupBuiltinType(name); ok {
		argsText, err := w.writeList(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", dataTypeToGLSL(dt), argsText), nil
	}
	if rw, ok := convert.LookupIntrinsic(name); ok {
		return w.writeIntrinsicCall(rw, args)
	}
	argsText, err := w.writeList(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", escapeKeyword(name), argsText), nil
}

// writeIntrinsicCall renders a rewritten HLSL intrinsic. RewriteClip and
// RewriteTextureMethod never reach here in legal HLSL: clip() is only valid
// as a free expression statement (intercepted by writeClipIfNeeded in
// statements.go before writeExpr runs), and texture methods are always
// called through a non-nil Prefix, handled by writeMethodCall instead.
func (w *Writer) writeIntrinsicCall(rw convert.IntrinsicRewrite, args []hlsl.Expr) (string, error) {
	switch rw.Kind {
	case convert.RewriteMul:
		if len(args) != 2 {
			return "", fmt.Errorf("glsl: mul() expects 2 arguments")
		}
		a, err := w.writeExpr(args[0])
		if err != nil {
			return "", err
		}
		b, err := w.writeExpr(args[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s * %s)", a, b), nil
	case convert.RewriteRcp:
		if len(args) != 1 {
			return "", fmt.Errorf("glsl: rcp() expects 1 argument")
		}
		a, err := w.writeExpr(args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(1.0 / %s)", a), nil
	case convert.RewriteSaturate:
		if len(args) != 1 {
			return "", fmt.Errorf("glsl: saturate() expects 1 argument")
		}
		a, err := w.writeExpr(args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("clamp(%s, 0.0, 1.0)", a), nil
	case convert.RewriteAtan2:
		argsText, err := w.writeList(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("atan(%s)", argsText), nil
	default: // RewriteRename, RewriteInterlocked, and the unreachable pass-through cases
		argsText, err := w.writeList(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", rw.GLSLName, argsText), nil
	}
}

// writeMethodCall renders `receiver.method(args)`. Texture sampling/load
// methods route through writeTextureMethodCall; anything else (there is no
// other built-in HLSL object method reachable post-flattening) falls back
// to a literal method-call spelling.
func (w *Writer) writeMethodCall(receiverText string, _ hlsl.Decl, methodName string, args []hlsl.Expr) (string, error) {
	if glslFn, ok := convert.LookupTextureMethod(methodName); ok {
		return w.writeTextureMethodCall(glslFn, methodName, receiverText, args)
	}
	argsText, err := w.writeList(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s(%s)", receiverText, escapeKeyword(methodName), argsText), nil
}

// writeTextureMethodCall drops the paired SamplerState argument that every
// HLSL Sample* method takes: the texture's own uniform name already doubles
// as the combined GLSL sampler (see writeBuffersAndSamplers), matching the
// pairing recorded in textureSamplerPairs.
func (w *Writer) writeTextureMethodCall(glslFn, methodName, receiverText string, args []hlsl.Expr) (string, error) {
	switch methodName {
	case "Sample", "SampleBias", "SampleCmp", "SampleLevel", "SampleGrad":
		if len(args) < 1 {
			return "", fmt.Errorf("glsl: %s expects a sampler argument", methodName)
		}
		w.notePair(receiverText)
		rest, err := w.writeList(args[1:])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s)", glslFn, receiverText, rest), nil
	case "Load":
		argsText, err := w.writeList(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s, 0)", glslFn, receiverText, argsText), nil
	case "GetDimensions":
		// HLSL GetDimensions writes every queried dimension through its out
		// parameters; textureSize returns them as one vector instead. The
		// caller's unpacking into separate out arguments isn't modeled here;
		// only the query expression itself is produced.
		return fmt.Sprintf("%s(%s, 0)", glslFn, receiverText), nil
	default:
		argsText, err := w.writeList(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %s)", glslFn, receiverText, argsText), nil
	}
}

func (w *Writer) notePair(name string) {
	if !containsString(w.textureSamplerPairs, name) {
		w.textureSamplerPairs = append(w.textureSamplerPairs, name)
	}
}

// writeLiteralToken converts one source literal token to its GLSL spelling.
// An HLSL float literal with no suffix defaults to double (spec.md 3.2), so
// it gets GLSL's `lf` double-literal suffix; `f`/`h`-suffixed and unsuffixed-
// int literals pass through with their suffix letter stripped.
func (w *Writer) writeLiteralToken(tok hlsl.Token) (string, error) {
	switch tok.Kind {
	case hlsl.TokenBoolLiteral:
		return tok.Lexeme, nil
	case hlsl.TokenStringLiteral:
		return strconv.Quote(tok.Lexeme), nil
	case hlsl.TokenIntLiteral:
		digits := strings.TrimRight(tok.Lexeme, "uUlL")
		if tok.Suffix == hlsl.SuffixUnsigned {
			return digits + "u", nil
		}
		return digits, nil
	case hlsl.TokenFloatLiteral:
		digits := strings.TrimRight(tok.Lexeme, "fFhH")
		if !strings.ContainsAny(digits, ".eE") {
			digits += ".0"
		}
		if tok.Suffix == hlsl.SuffixNone {
			return digits + "lf", nil
		}
		return digits, nil
	default:
		return "", fmt.Errorf("glsl: unexpected literal token kind %v", tok.Kind)
	}
}
