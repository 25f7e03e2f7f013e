// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"testing"

	"github.com/gogpu/xsc/hlsl"
)

func TestResolveRegisterNil(t *testing.T) {
	b := ResolveRegister(nil, BindingBases{})
	if b.HasBinding {
		t.Errorf("nil register should produce HasBinding=false, got %+v", b)
	}
}

func TestResolveRegisterAppliesBaseByLetter(t *testing.T) {
	bases := BindingBases{Sampler: 10, Texture: 20, Uniform: 30, Storage: 40}
	cases := []struct {
		letter byte
		slot   int
		want   uint32
	}{
		{'b', 2, 32},
		{'t', 1, 21},
		{'s', 0, 10},
		{'u', 3, 43},
	}
	for _, c := range cases {
		reg := &hlsl.RegisterBinding{Letter: c.letter, Slot: c.slot}
		got := ResolveRegister(reg, bases)
		if !got.HasBinding || got.Number != c.want {
			t.Errorf("register(%c%d) = %+v, want Number=%d", c.letter, c.slot, got, c.want)
		}
	}
}

func TestResolveRegisterSpace(t *testing.T) {
	reg := &hlsl.RegisterBinding{Letter: 't', Slot: 0, Space: 2, HasSpace: true}
	got := ResolveRegister(reg, BindingBases{})
	if got.Space != 2 {
		t.Errorf("register space = %d, want 2", got.Space)
	}
}
