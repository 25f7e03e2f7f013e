// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package testshader holds small HLSL source fixtures shared by the
// table-driven tests in resolve, reference, and glsl. Keeping them
// in one place means a fixture change updates every test that depends on
// its exact shape at once.
package testshader

// BasicFragment is a minimal fragment shader: one struct input, one scalar
// uniform, one texture/sampler pair, no control flow.
const BasicFragment = `
Texture2D baseColor : register(t0);
SamplerState baseSampler : register(s0);

cbuffer Params : register(b0) {
    float4 tint;
};

struct PSInput {
    float4 position : SV_Position;
    float2 uv : TEXCOORD0;
};

float4 main(PSInput input) : SV_Target {
    float4 sampled = baseColor.Sample(baseSampler, input.uv);
    return sampled * tint;
}
`

// BasicVertex is a minimal vertex shader: struct input, struct output,
// identity passthrough of position and a varying.
const BasicVertex = `
struct VSInput {
    float3 position : POSITION;
    float2 uv : TEXCOORD0;
};

struct VSOutput {
    float4 position : SV_Position;
    float2 uv : TEXCOORD0;
};

VSOutput main(VSInput input) {
    VSOutput output;
    output.position = float4(input.position, 1.0);
    output.uv = input.uv;
    return output;
}
`

// DeadCodeFragment has a statement unreachable after a return, for
// reference-analysis dead-code tagging.
const DeadCodeFragment = `
float4 main() : SV_Target {
    return float4(1.0, 0.0, 0.0, 1.0);
    float4 unreachable = float4(0.0, 0.0, 0.0, 0.0);
    return unreachable;
}
`

// UnreachableHelperFragment declares a helper function the entry point
// never calls, for reference-analysis reachability tagging.
const UnreachableHelperFragment = `
float4 helper() {
    return float4(0.0, 0.0, 0.0, 0.0);
}

float4 main() : SV_Target {
    return float4(1.0, 1.0, 1.0, 1.0);
}
`

// ClipFragment exercises the clip() intrinsic, rewritten to a discard
// statement in GLSL.
const ClipFragment = `
float4 main(float alpha : TEXCOORD0) : SV_Target {
    clip(alpha - 0.5);
    return float4(alpha, alpha, alpha, 1.0);
}
`

// StorageBufferCompute exercises a compute entry point with a
// RWStructuredBuffer, for storage-buffer emission and version inference.
const StorageBufferCompute = `
RWStructuredBuffer<float> results : register(u0);

[numthreads(64, 1, 1)]
void main(uint3 id : SV_DispatchThreadID) {
    results[id.x] = results[id.x] * 2.0;
}
`

// MulFragment exercises the mul() intrinsic's operand-order swap.
const MulFragment = `
float4 main(float4x4 m : TEXCOORD0, float4 v : TEXCOORD1) : SV_Target {
    float4 r = mul(m, v);
    return r;
}
`

// InterlockedAddCompute exercises the three-argument InterlockedAdd form,
// where the trailing out-parameter becomes an assignment target in GLSL.
const InterlockedAddCompute = `
RWStructuredBuffer<uint> counter : register(u0);

[numthreads(1, 1, 1)]
void main(uint3 id : SV_DispatchThreadID) {
    uint prev;
    InterlockedAdd(counter[0], 1, prev);
}
`
