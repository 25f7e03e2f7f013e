// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/xsc/hlsl"

// FlattenMembers returns s's members in base-to-derived declaration order,
// the emission-ready form of spec.md 4.5's struct-inheritance flattening
// ("a derived struct emits as a single GLSL struct/interface block
// containing every base member followed by its own"). Grounded on the
// general flatten-a-chain shape used throughout the teacher's storage
// layout code, and shares its traversal order with resolve/scope.go's
// walkStructChain so member shadowing and emission order agree.
func FlattenMembers(s *hlsl.StructDecl) []*hlsl.VarDecl {
	var out []*hlsl.VarDecl
	seen := make(map[string]bool)
	var walk func(*hlsl.StructDecl)
	walk = func(cur *hlsl.StructDecl) {
		if cur == nil {
			return
		}
		if cur.BaseRef != nil {
			walk(cur.BaseRef)
		}
		for _, m := range cur.Members {
			if seen[m.Name] {
				// A derived member shadows a base member of the same name;
				// replace it in place rather than duplicating the field.
				for i, existing := range out {
					if existing.Name == m.Name {
						out[i] = m
						break
					}
				}
				continue
			}
			seen[m.Name] = true
			out = append(out, m)
		}
	}
	walk(s)
	return out
}
