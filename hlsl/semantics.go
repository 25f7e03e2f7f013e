// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Semantic names the closed set of HLSL semantic words recognized by this
// compiler (spec.md 3.2). SemanticUserDefined covers any other identifier
// used as a semantic (e.g. "TEXCOORD" variants beyond the indexed set, or an
// application-defined varying name) — those carry their text in
// IndexedSemantic.Name instead of relying on this enum.
type Semantic int

const (
	SemanticUserDefined Semantic = iota
	SemanticPosition
	SemanticSVPosition
	SemanticSVTarget
	SemanticSVDepth
	SemanticSVClipDistance
	SemanticSVCullDistance
	SemanticSVVertexID
	SemanticSVInstanceID
	SemanticSVIsFrontFace
	SemanticSVSampleIndex
	SemanticSVDispatchThreadID
	SemanticSVGroupID
	SemanticSVGroupIndex
	SemanticSVGroupThreadID
	SemanticSVPrimitiveID
	SemanticSVRenderTargetArrayIndex
	SemanticSVViewportArrayIndex
	SemanticSVStencilRef
	SemanticTexCoord
	SemanticColor
	SemanticNormal
)

var semanticNames = map[Semantic]string{
	SemanticPosition:                 "POSITION",
	SemanticSVPosition:               "SV_Position",
	SemanticSVTarget:                 "SV_Target",
	SemanticSVDepth:                  "SV_Depth",
	SemanticSVClipDistance:           "SV_ClipDistance",
	SemanticSVCullDistance:           "SV_CullDistance",
	SemanticSVVertexID:               "SV_VertexID",
	SemanticSVInstanceID:             "SV_InstanceID",
	SemanticSVIsFrontFace:            "SV_IsFrontFace",
	SemanticSVSampleIndex:            "SV_SampleIndex",
	SemanticSVDispatchThreadID:       "SV_DispatchThreadID",
	SemanticSVGroupID:                "SV_GroupID",
	SemanticSVGroupIndex:             "SV_GroupIndex",
	SemanticSVGroupThreadID:          "SV_GroupThreadID",
	SemanticSVPrimitiveID:            "SV_PrimitiveID",
	SemanticSVRenderTargetArrayIndex: "SV_RenderTargetArrayIndex",
	SemanticSVViewportArrayIndex:     "SV_ViewportArrayIndex",
	SemanticSVStencilRef:             "SV_StencilRef",
	SemanticTexCoord:                 "TEXCOORD",
	SemanticColor:                    "COLOR",
	SemanticNormal:                   "NORMAL",
}

var namesBySemantic = func() map[string]Semantic {
	m := make(map[string]Semantic, len(semanticNames))
	for k, v := range semanticNames {
		m[strings.ToUpper(v)] = k
	}
	return m
}()

// String returns the canonical HLSL spelling, or "USER" for
// SemanticUserDefined (see IndexedSemantic.String for the full round-trip
// form, which carries the user-defined text).
func (s Semantic) String() string {
	if name, ok := semanticNames[s]; ok {
		return name
	}
	return "USER"
}

// IsSystemValue reports whether s is one of the SV_* system-value
// semantics, which convert.MapSystemValue maps to GLSL built-ins (gl_Position,
// gl_FragCoord, and so on) rather than user-defined varyings.
func (s Semantic) IsSystemValue() bool {
	return s >= SemanticSVPosition && s <= SemanticSVStencilRef
}

// IndexedSemantic pairs a semantic with its numeric index, e.g. TEXCOORD2 is
// {Base: SemanticTexCoord, Index: 2}. Indices are part of the semantic's
// identity for ordering and matching purposes (spec.md 3.2).
type IndexedSemantic struct {
	Base  Semantic
	Name  string // original identifier text, preserved for user-defined semantics
	Index int
}

// Compare orders two indexed semantics lexicographically, first by base
// semantic, then by index, then by user-defined text, giving deterministic
// output order when the emitter must sort a set of semantics (e.g.
// interface block members). The text tiebreaker only distinguishes
// SemanticUserDefined semantics that share the same (zero) index but
// different names.
func (a IndexedSemantic) Compare(b IndexedSemantic) int {
	if a.Base != b.Base {
		if a.Base < b.Base {
			return -1
		}
		return 1
	}
	if a.Index != b.Index {
		if a.Index < b.Index {
			return -1
		}
		return 1
	}
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	return 0
}

// String renders the round-trip textual form, e.g. "SV_Target2" or
// "myVarying" for a zero-index user-defined semantic.
func (s IndexedSemantic) String() string {
	if s.Base == SemanticUserDefined {
		return s.Name
	}
	name := semanticNames[s.Base]
	if s.Index == 0 {
		return name
	}
	return fmt.Sprintf("%s%d", name, s.Index)
}

// ParseIndexedSemantic parses semantic text such as "SV_Target2" or
// "TEXCOORD0" into its base semantic and trailing index. User-defined
// semantics without a recognized prefix return {SemanticUserDefined, text,
// 0} with ok=true: any identifier is a legal HLSL semantic.
func ParseIndexedSemantic(text string) (IndexedSemantic, bool) {
	if text == "" {
		return IndexedSemantic{}, false
	}
	upper := strings.ToUpper(text)

	// Longest-prefix match so "SV_Target" isn't shadowed by a shorter
	// accidental prefix match.
	var bestSem Semantic
	bestLen := -1
	for name, sem := range namesBySemantic {
		if strings.HasPrefix(upper, name) && len(name) > bestLen {
			bestSem = sem
			bestLen = len(name)
		}
	}
	if bestLen < 0 {
		return IndexedSemantic{Base: SemanticUserDefined, Name: text}, true
	}

	rest := text[bestLen:]
	if rest == "" {
		return IndexedSemantic{Base: bestSem, Index: 0}, true
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		// Trailing text isn't a plain index (e.g. "POSITIONAL") -- treat
		// the whole token as a user-defined semantic instead.
		return IndexedSemantic{Base: SemanticUserDefined, Name: text}, true
	}
	return IndexedSemantic{Base: bestSem, Index: idx}, true
}
