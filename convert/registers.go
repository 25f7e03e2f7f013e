// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import "github.com/gogpu/xsc/hlsl"

// Binding is a resolved GLSL layout(binding = N) assignment derived from an
// HLSL register() annotation, grounded on hlsl/bind_target.go's BindTarget/
// RegisterType (teacher) and glsl/writer.go's per-space binding-base-offset
// handling (UniformBindingBase, StorageBindingBase, etc. in Options).
type Binding struct {
	HasBinding bool
	Number     uint32
	Space      uint32
}

// BindingBases collects the per-kind binding offsets a caller wants applied
// uniformly, mirroring glsl.Options's four *BindingBase fields.
type BindingBases struct {
	Sampler uint32
	Texture uint32
	Uniform uint32
	Storage uint32
}

// ResolveRegister turns an HLSL register() annotation into a GLSL binding
// number, applying the base offset appropriate to the register letter:
// 'b' (cbuffer) -> uniform base, 't' (SRV: Buffer/Texture) -> texture base,
// 's' (sampler) -> sampler base, 'u' (UAV: RWBuffer/RWTexture) -> storage
// base. A declaration with no register() gets HasBinding=false; the backend
// then writes no binding for it.
func ResolveRegister(reg *hlsl.RegisterBinding, bases BindingBases) Binding {
	if reg == nil {
		return Binding{}
	}
	space := uint32(0)
	if reg.HasSpace {
		space = uint32(reg.Space)
	}
	base := uint32(0)
	switch reg.Letter {
	case 'b':
		base = bases.Uniform
	case 't':
		base = bases.Texture
	case 's':
		base = bases.Sampler
	case 'u':
		base = bases.Storage
	}
	return Binding{HasBinding: true, Number: base + uint32(reg.Slot), Space: space}
}
