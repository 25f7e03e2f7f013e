// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"strconv"
	"strings"

	"github.com/gogpu/xsc/hlsl"
)

// LowerAttributes scans the entry point function's attribute list and
// populates prog's per-stage layout record (Compute/TessControl/TessEval/
// Geometry/Fragment), grounded on glsl/writer.go's writeComputeLayout
// (teacher emits a layout(local_size_x=...) in exactly the shape this
// package now derives from [numthreads] instead of WGSL's @workgroup_size).
func LowerAttributes(prog *hlsl.Program, entry *hlsl.FunctionDeclStmt) {
	for _, attr := range entry.Attributes {
		switch strings.ToLower(attr.Name) {
		case "numthreads":
			prog.Compute = &hlsl.ComputeLayout{
				ThreadsX: intArg(attr, 0, 1),
				ThreadsY: intArg(attr, 1, 1),
				ThreadsZ: intArg(attr, 2, 1),
			}
		case "domain":
			domain := stringArg(attr, 0)
			if prog.TessEval == nil {
				prog.TessEval = &hlsl.TessEvalLayout{}
			}
			prog.TessEval.Domain = domain
			if prog.TessControl != nil {
				prog.TessControl.Domain = domain
			}
		case "partitioning":
			if prog.TessControl == nil {
				prog.TessControl = &hlsl.TessControlLayout{}
			}
			prog.TessControl.Partitioning = stringArg(attr, 0)
		case "outputtopology":
			if prog.TessControl == nil {
				prog.TessControl = &hlsl.TessControlLayout{}
			}
			prog.TessControl.OutputTopology = stringArg(attr, 0)
		case "outputcontrolpoints":
			if prog.TessControl == nil {
				prog.TessControl = &hlsl.TessControlLayout{}
			}
			prog.TessControl.OutputControlPoints = intArg(attr, 0, 1)
		case "maxtessfactor":
			if prog.TessControl == nil {
				prog.TessControl = &hlsl.TessControlLayout{}
			}
			prog.TessControl.MaxTessFactor = floatArg(attr, 0, 1.0)
		case "patchconstantfunc":
			if prog.TessControl == nil {
				prog.TessControl = &hlsl.TessControlLayout{}
			}
			prog.TessControl.PatchConstantFunc = stringArg(attr, 0)
			prog.SecondaryEntry = prog.TessControl.PatchConstantFunc
		case "maxvertexcount":
			prog.Geometry = &hlsl.GeometryLayout{MaxVertexCount: intArg(attr, 0, 1)}
		case "earlydepthstencil":
			prog.Fragment = &hlsl.FragmentLayout{EarlyDepthStencil: true}
		}
	}
}

func intArg(attr *hlsl.Attribute, idx, fallback int) int {
	if idx >= len(attr.Args) {
		return fallback
	}
	lit, ok := attr.Args[idx].(*hlsl.LiteralExpr)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimRight(lit.Tok.Lexeme, "uUfFhHlL"))
	if err != nil {
		return fallback
	}
	return n
}

func floatArg(attr *hlsl.Attribute, idx int, fallback float64) float64 {
	if idx >= len(attr.Args) {
		return fallback
	}
	lit, ok := attr.Args[idx].(*hlsl.LiteralExpr)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimRight(lit.Tok.Lexeme, "uUfFhHlL"), 64)
	if err != nil {
		return fallback
	}
	return f
}

func stringArg(attr *hlsl.Attribute, idx int) string {
	if idx >= len(attr.Args) {
		return ""
	}
	lit, ok := attr.Args[idx].(*hlsl.LiteralExpr)
	if !ok {
		return ""
	}
	return strings.Trim(lit.Tok.Lexeme, `"`)
}
