// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/hlsl"
)

// writeEntryPoint emits the in/out declarations for the selected stage and
// a `void main()` wrapping the entry function's body. HLSL entry points
// return a value (or write through out parameters); GLSL entry points are
// always void, so every return path is rewritten to assign the planned
// output bindings before a bare `return;` (see writeReturnStmt in
// statements.go).
func (w *Writer) writeEntryPoint() error {
	w.inEntryPoint = true
	defer func() { w.inEntryPoint = false }()

	switch w.plan.Stage {
	case convert.StageVertex:
		w.writeIOBindings(w.plan.Inputs, "in")
		w.writeIOBindings(w.plan.Outputs, "out")
	case convert.StageFragment:
		w.writeIOBindings(w.plan.Inputs, "in")
		w.writeIOBindings(w.plan.Outputs, "out")
	case convert.StageCompute:
		w.writeComputeLayout()
	default:
		w.writeIOBindings(w.plan.Inputs, "in")
		w.writeIOBindings(w.plan.Outputs, "out")
	}
	w.writeLine("")

	w.writeLine("void main() {")
	w.pushIndent()
	if err := w.writeCodeBlock(w.entry.Body); err != nil {
		return err
	}
	if w.plan.OutputParam != nil && !blockAlwaysReturns(w.entry.Body) {
		if err := w.fanOutParam(w.plan.OutputParam); err != nil {
			return err
		}
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeIOBindings declares every non-builtin binding at top level. The
// teacher's stage-specific writeVertexIO/writeFragmentIO grouped varyings
// into named interface blocks; here every binding already carries its own
// resolved location from PlanEntryPoint, so a flat per-member declaration
// is sufficient and avoids inventing block names the source never had.
func (w *Writer) writeIOBindings(bindings []convert.IOBinding, qualifier string) {
	for _, b := range bindings {
		if b.Kind == convert.IOBuiltin {
			continue
		}
		typ := w.ioBindingType(b)
		w.writeLine("layout(location = %d) %s %s %s;", b.Location, qualifier, w.typeDenoterToGLSL(typ), escapeKeyword(b.GLSLName))
	}
}

func (w *Writer) ioBindingType(b convert.IOBinding) hlsl.TypeDenoter {
	if b.Member != nil {
		return b.Member.Type.Resolved
	}
	if b.ParamRef != nil {
		return b.ParamRef.Type.Resolved
	}
	if w.entry.ReturnType != nil {
		return w.entry.ReturnType.Resolved
	}
	return hlsl.TypeDenoter{Tag: hlsl.DenoterBase, Base: hlsl.Float4}
}

func (w *Writer) writeComputeLayout() {
	x, y, z := 1, 1, 1
	if w.prog.Compute != nil {
		x, y, z = nonZero(w.prog.Compute.ThreadsX), nonZero(w.prog.Compute.ThreadsY), nonZero(w.prog.Compute.ThreadsZ)
	}
	w.writeLine("layout(local_size_x = %d, local_size_y = %d, local_size_z = %d) in;", x, y, z)
}

func nonZero(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// blockAlwaysReturns is a shallow, last-statement check rather than full
// reachability analysis: it only recognizes a trailing bare return, which
// covers the common "write outputs into the parameter, then return" shape.
// A function with multiple early-return paths rendered through an out
// parameter without a trailing one falls back to an (harmless) extra
// fan-out after the function body.
func blockAlwaysReturns(b *hlsl.CodeBlock) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*hlsl.ReturnStmt)
	return ok
}

// builtinRef renders a reference to an IOBinding's GLSL name, applying the
// int->uint cast MapSystemValue flagged for gl_VertexID/gl_InstanceID-style
// built-ins that HLSL exposes as signed.
func (w *Writer) builtinRef(b convert.IOBinding) string {
	if b.Kind != convert.IOBuiltin {
		return escapeKeyword(b.GLSLName)
	}
	if b.NeedsCast {
		return "uint(" + b.GLSLName + ")"
	}
	return b.GLSLName
}

// fanOutParam assigns every output binding sourced from p's flattened
// members, used both for the struct-return temporary (statements.go) and a
// void entry point's `out`/`inout` struct parameter.
func (w *Writer) fanOutParam(p *hlsl.ParamDecl) error {
	if p == nil || p.Type == nil || p.Type.Resolved.Tag != hlsl.DenoterStruct {
		return nil
	}
	for _, out := range w.plan.Outputs {
		if out.Member == nil {
			continue
		}
		target := w.builtinRef(out)
		w.writeLine("%s = %s.%s;", target, escapeKeyword(p.Name), escapeKeyword(out.Member.Name))
	}
	return nil
}
