// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/hlsl"
)

// writeCodeBlock renders every statement of b in order. nil is accepted for
// a forward-declared or otherwise bodiless block and renders nothing.
func (w *Writer) writeCodeBlock(b *hlsl.CodeBlock) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := w.writeStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// writeStmt dispatches over every concrete statement kind. Local struct/
// alias/buffer/sampler/uniform-buffer/function declaration statements are
// skipped: resolve.Bind hoists these to Program's module-scope slices
// during binding, so none are expected to still be reachable as a
// function-body statement by the time codegen walks it.
func (w *Writer) writeStmt(s hlsl.Stmt) error {
	switch n := s.(type) {
	case *hlsl.NullStmt:
		return nil
	case *hlsl.VarDeclStmt:
		return w.writeVarDeclStmt(n)
	case *hlsl.CodeBlockStmt:
		w.writeLine("{")
		w.pushIndent()
		if err := w.writeCodeBlock(n.Body); err != nil {
			return err
		}
		w.popIndent()
		w.writeLine("}")
		return nil
	case *hlsl.ForStmt:
		return w.writeForStmt(n)
	case *hlsl.WhileStmt:
		return w.writeWhileStmt(n)
	case *hlsl.DoWhileStmt:
		return w.writeDoWhileStmt(n)
	case *hlsl.IfStmt:
		return w.writeIfStmt(n)
	case *hlsl.SwitchStmt:
		return w.writeSwitchStmt(n)
	case *hlsl.ExprStmt:
		return w.writeExprStmt(n)
	case *hlsl.ReturnStmt:
		return w.writeReturnStmt(n)
	case *hlsl.ControlTransferStmt:
		return w.writeControlTransferStmt(n)
	case *hlsl.FunctionDeclStmt, *hlsl.StructDeclStmt, *hlsl.AliasDeclStmt,
		*hlsl.BufferDeclStmt, *hlsl.SamplerDeclStmt, *hlsl.UniformBufferDeclStmt:
		return nil
	default:
		return fmt.Errorf("glsl: unsupported statement %T", s)
	}
}

func (w *Writer) writeVarDeclStmt(n *hlsl.VarDeclStmt) error {
	for _, d := range n.Decls {
		if err := w.writeLocalVarDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeLocalVarDecl(d *hlsl.VarDecl) error {
	typeName := w.typeDenoterToGLSL(d.Type.Resolved)
	suffix := arraySuffix(d.Type.Resolved)
	name := escapeKeyword(d.Name)
	if d.Init != nil {
		init, err := w.writeExpr(d.Init)
		if err != nil {
			return err
		}
		w.writeLine("%s %s%s = %s;", typeName, name, suffix, init)
		return nil
	}
	w.writeLine("%s %s%s;", typeName, name, suffix)
	return nil
}

func (w *Writer) writeForStmt(n *hlsl.ForStmt) error {
	initText, err := w.writeForInit(n.Init)
	if err != nil {
		return err
	}
	condText := ""
	if n.Cond != nil && !isNullExpr(n.Cond) {
		condText, err = w.writeExpr(n.Cond)
		if err != nil {
			return err
		}
	}
	iterText := ""
	if n.Iter != nil && !isNullExpr(n.Iter) {
		iterText, err = w.writeExpr(n.Iter)
		if err != nil {
			return err
		}
	}
	w.writeLine("for (%s; %s; %s) {", initText, condText, iterText)
	w.pushIndent()
	if err := w.writeCodeBlock(n.Body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeForInit renders a for-loop's init clause inline, without the trailing
// semicolon or indentation writeStmt would otherwise add.
func (w *Writer) writeForInit(s hlsl.Stmt) (string, error) {
	switch n := s.(type) {
	case nil, *hlsl.NullStmt:
		return "", nil
	case *hlsl.VarDeclStmt:
		parts := make([]string, 0, len(n.Decls))
		for _, d := range n.Decls {
			typeName := w.typeDenoterToGLSL(d.Type.Resolved)
			name := escapeKeyword(d.Name)
			if d.Init != nil {
				init, err := w.writeExpr(d.Init)
				if err != nil {
					return "", err
				}
				parts = append(parts, fmt.Sprintf("%s %s = %s", typeName, name, init))
			} else {
				parts = append(parts, fmt.Sprintf("%s %s", typeName, name))
			}
		}
		return strings.Join(parts, ", "), nil
	case *hlsl.ExprStmt:
		return w.writeExpr(n.Expr)
	default:
		return "", fmt.Errorf("glsl: unsupported for-loop init statement %T", s)
	}
}

func (w *Writer) writeWhileStmt(n *hlsl.WhileStmt) error {
	cond, err := w.writeExpr(n.Cond)
	if err != nil {
		return err
	}
	w.writeLine("while (%s) {", cond)
	w.pushIndent()
	if err := w.writeCodeBlock(n.Body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) writeDoWhileStmt(n *hlsl.DoWhileStmt) error {
	w.writeLine("do {")
	w.pushIndent()
	if err := w.writeCodeBlock(n.Body); err != nil {
		return err
	}
	w.popIndent()
	cond, err := w.writeExpr(n.Cond)
	if err != nil {
		return err
	}
	w.writeLine("} while (%s);", cond)
	return nil
}

func (w *Writer) writeIfStmt(n *hlsl.IfStmt) error {
	cond, err := w.writeExpr(n.Cond)
	if err != nil {
		return err
	}
	w.writeLine("if (%s) {", cond)
	w.pushIndent()
	if err := w.writeCodeBlock(n.Then); err != nil {
		return err
	}
	w.popIndent()
	return w.writeElseChain(n.Else)
}

// writeElseChain closes the preceding if's brace and, for an else-if chain,
// folds the `} else if (...) {` onto one line the way hand-written GLSL
// does, rather than emitting a nested `} else { if (...) { ... } }`.
func (w *Writer) writeElseChain(e *hlsl.ElseStmt) error {
	if e == nil {
		w.writeLine("}")
		return nil
	}
	if e.Nested != nil {
		cond, err := w.writeExpr(e.Nested.Cond)
		if err != nil {
			return err
		}
		w.writeLine("} else if (%s) {", cond)
		w.pushIndent()
		if err := w.writeCodeBlock(e.Nested.Then); err != nil {
			return err
		}
		w.popIndent()
		return w.writeElseChain(e.Nested.Else)
	}
	w.writeLine("} else {")
	w.pushIndent()
	if err := w.writeCodeBlock(e.Body); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) writeSwitchStmt(n *hlsl.SwitchStmt) error {
	sel, err := w.writeExpr(n.Sel)
	if err != nil {
		return err
	}
	w.writeLine("switch (%s) {", sel)
	w.pushIndent()
	for _, c := range n.Cases {
		if c.IsDefault {
			w.writeLine("default:")
		} else {
			val, err := w.writeExpr(c.Value)
			if err != nil {
				return err
			}
			w.writeLine("case %s:", val)
		}
		w.pushIndent()
		for _, stmt := range c.Body {
			if err := w.writeStmt(stmt); err != nil {
				return err
			}
		}
		w.popIndent()
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) writeExprStmt(n *hlsl.ExprStmt) error {
	handled, err := w.writeClipIfNeeded(n.Expr)
	if handled || err != nil {
		return err
	}
	handled, err = w.writeInterlockedIfNeeded(n.Expr)
	if handled || err != nil {
		return err
	}
	text, err := w.writeExpr(n.Expr)
	if err != nil {
		return err
	}
	w.writeLine("%s;", text)
	return nil
}

// writeInterlockedIfNeeded recognizes a bare `InterlockedX(mem, val, prev);`
// call statement. HLSL's Interlocked* intrinsics take the original value as
// an optional trailing out-parameter; GLSL's atomic* built-ins return it
// instead, so the third argument becomes an assignment target rather than
// a call argument.
func (w *Writer) writeInterlockedIfNeeded(e hlsl.Expr) (bool, error) {
	call, ok := e.(*hlsl.AccessExpr)
	if !ok || call.Prefix != nil || len(call.Suffixes) != 1 {
		return false, nil
	}
	suf := call.Suffixes[0]
	if suf.Kind != hlsl.AccessCall {
		return false, nil
	}
	if suf.Name == "InterlockedCompareStore" {
		// Three positional arguments (dest, compare, value), none of them
		// an out-parameter; atomicCompSwap(dest, compare, value) as a bare
		// statement already discards the returned old value, giving the
		// same compare-and-swap side effect without an assignment.
		return false, nil
	}
	rw, ok := convert.LookupIntrinsic(suf.Name)
	if !ok || rw.Kind != convert.RewriteInterlocked {
		return false, nil
	}
	if len(suf.Args) != 3 {
		return false, nil
	}
	prev, err := w.writeExpr(suf.Args[2])
	if err != nil {
		return true, err
	}
	mem, err := w.writeExpr(suf.Args[0])
	if err != nil {
		return true, err
	}
	val, err := w.writeExpr(suf.Args[1])
	if err != nil {
		return true, err
	}
	w.writeLine("%s = %s(%s, %s);", prev, rw.GLSLName, mem, val)
	return true, nil
}

// writeClipIfNeeded recognizes a bare `clip(x);` call statement. GLSL's
// discard is a statement, not an expression, so clip can't be rewritten in
// writeExpr the way every other intrinsic is (see writeIntrinsicCall).
func (w *Writer) writeClipIfNeeded(e hlsl.Expr) (bool, error) {
	call, ok := e.(*hlsl.AccessExpr)
	if !ok || call.Prefix != nil || len(call.Suffixes) != 1 {
		return false, nil
	}
	suf := call.Suffixes[0]
	if suf.Kind != hlsl.AccessCall || suf.Name != "clip" || len(suf.Args) != 1 {
		return false, nil
	}
	arg := suf.Args[0]
	argText, err := w.writeExpr(arg)
	if err != nil {
		return true, err
	}
	if arg.Type().IsScalar() {
		w.writeLine("if (%s < 0.0) discard;", argText)
		return true, nil
	}
	vecType := w.typeDenoterToGLSL(arg.Type())
	w.writeLine("if (any(lessThan(%s, %s(0.0)))) discard;", argText, vecType)
	return true, nil
}

func (w *Writer) writeControlTransferStmt(n *hlsl.ControlTransferStmt) error {
	switch n.Which {
	case hlsl.ControlBreak:
		w.writeLine("break;")
	case hlsl.ControlContinue:
		w.writeLine("continue;")
	case hlsl.ControlDiscard:
		w.writeLine("discard;")
	}
	return nil
}

// writeReturnStmt routes a `return;`/`return expr;` through the plain
// function-body path, or through writeEntryReturn's struct/out-parameter
// fan-out when w.inEntryPoint (GLSL's main() is always void).
func (w *Writer) writeReturnStmt(n *hlsl.ReturnStmt) error {
	if !w.inEntryPoint {
		if n.Value == nil {
			w.writeLine("return;")
			return nil
		}
		value, err := w.writeExpr(n.Value)
		if err != nil {
			return err
		}
		w.writeLine("return %s;", value)
		return nil
	}
	return w.writeEntryReturn(n)
}

// writeEntryReturn fans a return value out to the planned output bindings
// before emitting GLSL's required bare `return;`. A struct return is first
// materialized into a `_xsc_ret` temporary so every flattened member is read
// from one evaluation of the return expression, matching the single-
// evaluation semantics HLSL's `return expr;` has.
func (w *Writer) writeEntryReturn(n *hlsl.ReturnStmt) error {
	if w.plan.OutputParam != nil {
		if err := w.fanOutParam(w.plan.OutputParam); err != nil {
			return err
		}
		w.writeLine("return;")
		return nil
	}
	if n.Value == nil {
		w.writeLine("return;")
		return nil
	}
	if w.plan.ReturnsStruct {
		structName := w.typeDenoterToGLSL(n.Value.Type())
		tmp, err := w.writeExpr(n.Value)
		if err != nil {
			return err
		}
		w.writeLine("%s _xsc_ret = %s;", structName, tmp)
		for _, out := range w.plan.Outputs {
			if out.Member == nil {
				continue
			}
			target := w.builtinRef(out)
			w.writeLine("%s = _xsc_ret.%s;", target, escapeKeyword(out.Member.Name))
		}
		w.writeLine("return;")
		return nil
	}
	value, err := w.writeExpr(n.Value)
	if err != nil {
		return err
	}
	if len(w.plan.Outputs) == 1 {
		target := w.builtinRef(w.plan.Outputs[0])
		w.writeLine("%s = %s;", target, value)
	}
	w.writeLine("return;")
	return nil
}
