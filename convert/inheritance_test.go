// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
)

func TestFlattenMembersOrdersBaseBeforeDerived(t *testing.T) {
	base := &hlsl.StructDecl{
		Name: "Base",
		Members: []*hlsl.VarDecl{
			{Name: "a"},
			{Name: "b"},
		},
	}
	derived := &hlsl.StructDecl{
		Name:     "Derived",
		BaseName: "Base",
		BaseRef:  base,
		Members: []*hlsl.VarDecl{
			{Name: "c"},
		},
	}

	got := FlattenMembers(derived)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("FlattenMembers returned %d members, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("member %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestFlattenMembersDerivedShadowsBase(t *testing.T) {
	shadowed := &hlsl.VarDecl{Name: "x"}
	shadowing := &hlsl.VarDecl{Name: "x"}
	base := &hlsl.StructDecl{Name: "Base", Members: []*hlsl.VarDecl{shadowed}}
	derived := &hlsl.StructDecl{Name: "Derived", BaseRef: base, Members: []*hlsl.VarDecl{shadowing}}

	got := FlattenMembers(derived)
	if len(got) != 1 {
		t.Fatalf("FlattenMembers returned %d members, want 1 (shadowed)", len(got))
	}
	if got[0] != shadowing {
		t.Error("derived member should replace the shadowed base member in place")
	}
}

func TestFlattenMembersNoBase(t *testing.T) {
	s := &hlsl.StructDecl{Name: "Plain", Members: []*hlsl.VarDecl{{Name: "x"}, {Name: "y"}}}
	got := FlattenMembers(s)
	if len(got) != 2 {
		t.Fatalf("FlattenMembers returned %d members, want 2", len(got))
	}
}
