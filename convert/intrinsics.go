// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

// IntrinsicRewrite describes how to emit an HLSL intrinsic call as GLSL:
// either a call-shape change (mul -> the `*` operator, rcp -> division,
// etc., handled in glsl/expressions.go's call-site switch), or a plain name
// substitution for the common case where HLSL and GLSL intrinsics differ
// only in spelling. Grounded on hlsl/conv.go's single-
// switch-per-concern pattern (teacher's ScalarCast) and on the existing
// texture-call handling already in glsl/expressions.go.
type IntrinsicRewrite struct {
	// GLSLName is the direct replacement name, or "" when the call needs
	// shape rewriting (argument reordering/splitting) rather than a rename.
	GLSLName string
	// Kind distinguishes shape-changing rewrites from plain renames.
	Kind RewriteKind
}

// RewriteKind enumerates the intrinsic rewrite strategies.
type RewriteKind uint8

const (
	// RewriteRename: the GLSL call has an identical argument shape, just a
	// different name (e.g. "frac" -> "fract").
	RewriteRename RewriteKind = iota
	// RewriteMul: mul(a, b) becomes (a * b); GLSL's `*` between matrices
	// and vectors already performs the same product HLSL's mul() does, so
	// argument order is preserved, not swapped.
	RewriteMul
	// RewriteRcp: rcp(x) becomes 1.0/x (no direct GLSL builtin).
	RewriteRcp
	// RewriteSaturate: saturate(x) becomes clamp(x, 0.0, 1.0).
	RewriteSaturate
	// RewriteAtan2: atan2(y, x) becomes atan(y, x) (argument order
	// preserved, GLSL just drops the "2" from the name).
	RewriteAtan2
	// RewriteClip: clip(x) becomes `if (any(lessThan(x, 0))) discard;`
	// (or the scalar form), handled structurally at the statement level.
	RewriteClip
	// RewriteInterlocked: Interlocked* atomic ops map to GLSL's atomic*
	// builtins, which take a memory reference instead of an out-param for
	// the original value.
	RewriteInterlocked
	// RewriteTextureMethod: Texture2D.Sample(s, uv) etc. becomes the
	// combined-sampler GLSL call texture(sampler2D, uv).
	RewriteTextureMethod
)

// intrinsicTable maps HLSL intrinsic names to their GLSL rewrite. Grounded
// on the shared subset of HLSL's and GLSL's standard libraries; intrinsics
// spelled the same in both languages (abs, min, max, clamp, sin, cos, sqrt,
// pow, ...) are listed too, next to renames such as lerp->mix, so the
// lookup always goes through this table rather than assuming a
// pass-through default.
var intrinsicTable = map[string]IntrinsicRewrite{
	"abs":         {GLSLName: "abs", Kind: RewriteRename},
	"acos":        {GLSLName: "acos", Kind: RewriteRename},
	"all":         {GLSLName: "all", Kind: RewriteRename},
	"any":         {GLSLName: "any", Kind: RewriteRename},
	"asin":        {GLSLName: "asin", Kind: RewriteRename},
	"atan":        {GLSLName: "atan", Kind: RewriteRename},
	"atan2":       {Kind: RewriteAtan2},
	"ceil":        {GLSLName: "ceil", Kind: RewriteRename},
	"clamp":       {GLSLName: "clamp", Kind: RewriteRename},
	"clip":        {Kind: RewriteClip},
	"cos":         {GLSLName: "cos", Kind: RewriteRename},
	"cosh":        {GLSLName: "cosh", Kind: RewriteRename},
	"cross":       {GLSLName: "cross", Kind: RewriteRename},
	"ddx":         {GLSLName: "dFdx", Kind: RewriteRename},
	"ddy":         {GLSLName: "dFdy", Kind: RewriteRename},
	"degrees":     {GLSLName: "degrees", Kind: RewriteRename},
	"determinant": {GLSLName: "determinant", Kind: RewriteRename},
	"distance":    {GLSLName: "distance", Kind: RewriteRename},
	"dot":         {GLSLName: "dot", Kind: RewriteRename},
	"exp":         {GLSLName: "exp", Kind: RewriteRename},
	"exp2":        {GLSLName: "exp2", Kind: RewriteRename},
	"faceforward": {GLSLName: "faceforward", Kind: RewriteRename},
	"floor":       {GLSLName: "floor", Kind: RewriteRename},
	"fmod":        {GLSLName: "mod", Kind: RewriteRename},
	"frac":        {GLSLName: "fract", Kind: RewriteRename},
	"InterlockedAdd":            {GLSLName: "atomicAdd", Kind: RewriteInterlocked},
	"InterlockedAnd":            {GLSLName: "atomicAnd", Kind: RewriteInterlocked},
	"InterlockedOr":             {GLSLName: "atomicOr", Kind: RewriteInterlocked},
	"InterlockedXor":            {GLSLName: "atomicXor", Kind: RewriteInterlocked},
	"InterlockedMin":            {GLSLName: "atomicMin", Kind: RewriteInterlocked},
	"InterlockedMax":            {GLSLName: "atomicMax", Kind: RewriteInterlocked},
	"InterlockedExchange":       {GLSLName: "atomicExchange", Kind: RewriteInterlocked},
	"InterlockedCompareExchange": {GLSLName: "atomicCompSwap", Kind: RewriteInterlocked},
	"InterlockedCompareStore":    {GLSLName: "atomicCompSwap", Kind: RewriteInterlocked},
	"isnan":       {GLSLName: "isnan", Kind: RewriteRename},
	"isinf":       {GLSLName: "isinf", Kind: RewriteRename},
	"ldexp":       {GLSLName: "ldexp", Kind: RewriteRename},
	"length":      {GLSLName: "length", Kind: RewriteRename},
	"lerp":        {GLSLName: "mix", Kind: RewriteRename},
	"log":         {GLSLName: "log", Kind: RewriteRename},
	"log2":        {GLSLName: "log2", Kind: RewriteRename},
	"max":         {GLSLName: "max", Kind: RewriteRename},
	"min":         {GLSLName: "min", Kind: RewriteRename},
	"mul":         {Kind: RewriteMul},
	"normalize":   {GLSLName: "normalize", Kind: RewriteRename},
	"pow":         {GLSLName: "pow", Kind: RewriteRename},
	"radians":     {GLSLName: "radians", Kind: RewriteRename},
	"rcp":         {Kind: RewriteRcp},
	"reflect":     {GLSLName: "reflect", Kind: RewriteRename},
	"refract":     {GLSLName: "refract", Kind: RewriteRename},
	"round":       {GLSLName: "round", Kind: RewriteRename},
	"rsqrt":       {GLSLName: "inversesqrt", Kind: RewriteRename},
	"saturate":    {Kind: RewriteSaturate},
	"sign":        {GLSLName: "sign", Kind: RewriteRename},
	"sin":         {GLSLName: "sin", Kind: RewriteRename},
	"sinh":        {GLSLName: "sinh", Kind: RewriteRename},
	"smoothstep":  {GLSLName: "smoothstep", Kind: RewriteRename},
	"sqrt":        {GLSLName: "sqrt", Kind: RewriteRename},
	"step":        {GLSLName: "step", Kind: RewriteRename},
	"tan":         {GLSLName: "tan", Kind: RewriteRename},
	"tanh":        {GLSLName: "tanh", Kind: RewriteRename},
	"transpose":   {GLSLName: "transpose", Kind: RewriteRename},
	"trunc":       {GLSLName: "trunc", Kind: RewriteRename},
}

// LookupIntrinsic returns the rewrite for an HLSL intrinsic name, or
// (zero, false) when name isn't a recognized intrinsic (a user function or
// a texture-object method, which resolve.Bind would have already routed
// differently).
func LookupIntrinsic(name string) (IntrinsicRewrite, bool) {
	r, ok := intrinsicTable[name]
	return r, ok
}

// textureMethodTable maps a Texture*/RWTexture* method name to its GLSL
// texture-sampling function, grounded on glsl/expressions.go's existing
// texture-call handling (teacher models WGSL's textureSample family; this
// retargets to HLSL's Sample/Load/SampleLevel method syntax).
var textureMethodTable = map[string]string{
	"Sample":      "texture",
	"SampleLevel": "textureLod",
	"SampleBias":  "texture", // bias is an extra trailing arg, same GLSL call
	"SampleGrad":  "textureGrad",
	"SampleCmp":   "texture", // shadow sampler: compare value folded into uv.z
	"Load":        "texelFetch",
	"GetDimensions": "textureSize",
}

// LookupTextureMethod returns the GLSL function name for an HLSL texture
// object method, or (\"\", false) if name isn't a recognized method.
func LookupTextureMethod(name string) (string, bool) {
	g, ok := textureMethodTable[name]
	return g, ok
}
