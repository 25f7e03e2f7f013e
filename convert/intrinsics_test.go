// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import "testing"

func TestLookupIntrinsicRename(t *testing.T) {
	rw, ok := LookupIntrinsic("trunc")
	if !ok || rw.Kind != RewriteRename || rw.GLSLName != "trunc" {
		t.Errorf("LookupIntrinsic(trunc) = %+v, %v", rw, ok)
	}
}

func TestLookupIntrinsicShapeRewrites(t *testing.T) {
	cases := map[string]RewriteKind{
		"mul":      RewriteMul,
		"rcp":      RewriteRcp,
		"saturate": RewriteSaturate,
		"atan2":    RewriteAtan2,
	}
	for name, kind := range cases {
		rw, ok := LookupIntrinsic(name)
		if !ok || rw.Kind != kind {
			t.Errorf("LookupIntrinsic(%s) = %+v, %v, want Kind=%v", name, rw, ok, kind)
		}
	}
}

func TestLookupIntrinsicUnknown(t *testing.T) {
	if _, ok := LookupIntrinsic("not_a_real_intrinsic"); ok {
		t.Error("LookupIntrinsic should report false for an unrecognized name")
	}
}

func TestLookupTextureMethod(t *testing.T) {
	g, ok := LookupTextureMethod("SampleLevel")
	if !ok || g != "textureLod" {
		t.Errorf("LookupTextureMethod(SampleLevel) = %q, %v, want textureLod", g, ok)
	}
	if _, ok := LookupTextureMethod("NotAMethod"); ok {
		t.Error("LookupTextureMethod should report false for an unrecognized method")
	}
}
