// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"fmt"

	"github.com/gogpu/xsc/hlsl"
)

// Stage names the shader stage an entry point targets (spec.md 6's
// ShaderInput "shader stage" field). Interface-block legality (spec.md
// 4.5's "if the target stage cannot accept interface blocks of that
// direction") depends on this.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
	StageTessControl
	StageTessEval
	StageGeometry
)

// IOKind distinguishes how one entry-point struct member is realized in
// GLSL.
type IOKind uint8

const (
	// IOBuiltin: member maps to a gl_* built-in, no declaration needed.
	IOBuiltin IOKind = iota
	// IOLocation: member gets a top-level `layout(location=N) in/out`.
	IOLocation
	// IOBlockMember: a located member whose stage and direction accept an
	// `in`/`out` interface block. The glsl backend declares it at top level
	// with its location, the same as IOLocation; it emits no block.
	IOBlockMember
)

// IOBinding describes how one flattened member of an entry point's
// input/output struct is realized.
type IOBinding struct {
	Member    *hlsl.VarDecl
	ParamRef  *hlsl.ParamDecl // set only for a bare (non-struct) entry parameter
	Kind      IOKind
	GLSLName  string // the gl_* name (IOBuiltin) or the declared identifier
	Location  int
	HasLoc    bool
	NeedsCast bool // gl_VertexID/gl_InstanceID: int -> uint
	Direction Direction
}

// EntryPointPlan is the result of lowering one entry point's struct-typed
// parameters and return value (spec.md 4.5 "Entry-point lowering"):
// the parameter/return struct types are flattened to individual bindings,
// system values resolved to their GLSL built-ins, and everything else
// assigned sequential interface locations.
type EntryPointPlan struct {
	Stage          Stage
	UsesInterfaceBlocks bool // not set by PlanEntryPoint (always false); block eligibility is per binding, as IOBlockMember
	Inputs         []IOBinding
	Outputs        []IOBinding
	InputParam     *hlsl.ParamDecl // the struct-typed `in`/`inout` parameter, nil if none
	OutputParam    *hlsl.ParamDecl // the struct-typed `out`/`inout` parameter, nil if none
	ReturnsStruct  bool
}

// stageAcceptsInterfaceBlock reports whether dir-facing interface blocks
// are legal for stage, per spec.md 4.5: vertex inputs, fragment outputs,
// and both directions in compute must instead resolve to plain top-level
// globals.
func stageAcceptsInterfaceBlock(stage Stage, dir Direction) bool {
	switch stage {
	case StageVertex:
		return dir == DirectionOutput
	case StageFragment:
		return dir == DirectionInput
	case StageCompute:
		return false
	default:
		return true
	}
}

// PlanEntryPoint builds the EntryPointPlan for entry, targeting stage.
// nextLocation assigns sequential location numbers to members without a
// semantic index recognized as a system value.
func PlanEntryPoint(entry *hlsl.FunctionDeclStmt, stage Stage) *EntryPointPlan {
	plan := &EntryPointPlan{Stage: stage}

	loc := 0
	for _, p := range entry.Params {
		dir := paramDirection(p.Storage)
		if p.Type != nil && p.Type.Resolved.Tag == hlsl.DenoterStruct {
			if dir == DirectionInput || p.Storage == hlsl.StorageInOut {
				plan.InputParam = p
			}
			if dir == DirectionOutput || p.Storage == hlsl.StorageInOut {
				plan.OutputParam = p
			}
			members := FlattenMembers(p.Type.Resolved.StructRef)
			bindings := bindMembers(members, dir, stage, &loc)
			if dir == DirectionOutput {
				plan.Outputs = append(plan.Outputs, bindings...)
			} else {
				plan.Inputs = append(plan.Inputs, bindings...)
			}
			continue
		}
		// A bare semantic-carrying scalar parameter (no wrapping struct).
		binding := bindOne(p.Name, p.Semantic, dir, stage, &loc)
		binding.ParamRef = p
		plan.Inputs = append(plan.Inputs, binding)
	}

	if entry.ReturnType != nil && entry.ReturnType.Resolved.Tag != hlsl.DenoterVoid {
		if entry.ReturnType.Resolved.Tag == hlsl.DenoterStruct {
			plan.ReturnsStruct = true
			members := FlattenMembers(entry.ReturnType.Resolved.StructRef)
			plan.Outputs = append(plan.Outputs, bindMembers(members, DirectionOutput, stage, &loc)...)
		} else {
			plan.Outputs = append(plan.Outputs, bindOne("result", entry.ReturnSem, DirectionOutput, stage, &loc))
		}
	}

	return plan
}

func paramDirection(storage hlsl.StorageClass) Direction {
	if storage == hlsl.StorageOut {
		return DirectionOutput
	}
	return DirectionInput
}

func bindMembers(members []*hlsl.VarDecl, dir Direction, stage Stage, loc *int) []IOBinding {
	out := make([]IOBinding, 0, len(members))
	for _, m := range members {
		out = append(out, bindOne(m.Name, m.Semantic, dir, stage, loc))
		out[len(out)-1].Member = m
	}
	return out
}

func bindOne(name string, sem *hlsl.IndexedSemantic, dir Direction, stage Stage, loc *int) IOBinding {
	if sem != nil && sem.Base != hlsl.SemanticUserDefined {
		builtin := MapSystemValue(sem.Base, dir)
		if builtin.IsBuiltin {
			return IOBinding{Kind: IOBuiltin, GLSLName: builtin.Name, NeedsCast: builtin.NeedsUintCast, Direction: dir}
		}
	}
	// SV_Target[n] (fragment output) and every ordinary varying: location-
	// or-block member carrying a sequential (or semantic-index-derived)
	// location.
	location := *loc
	if sem != nil && sem.Base == hlsl.SemanticSVTarget {
		location = sem.Index
	} else {
		*loc++
	}
	kind := IOLocation
	if stageAcceptsInterfaceBlock(stage, dir) {
		kind = IOBlockMember
	}
	glslName := varyingName(sem, name, location)
	return IOBinding{Kind: kind, GLSLName: glslName, Location: location, HasLoc: true, Direction: dir}
}

// varyingName derives the GLSL identifier for a non-builtin varying: a
// semantic-carrying member gets the `v_<SEMANTIC><index>` spelling spec.md
// 8's scenario 1 shows (e.g. "v_POSITION0"), so two members differing only
// by semantic index never collide; a member with no semantic (the "result"
// placeholder for an unsemantic'd scalar return) falls back to its source
// name, or a positional "io_N" if that's empty too.
func varyingName(sem *hlsl.IndexedSemantic, name string, location int) string {
	if sem != nil {
		base := sem.Name
		if sem.Base != hlsl.SemanticUserDefined {
			base = sem.Base.String()
		}
		if base != "" {
			return fmt.Sprintf("v_%s%d", base, sem.Index)
		}
	}
	if name != "" {
		return name
	}
	return fmt.Sprintf("io_%d", location)
}
