// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag provides source-anchored diagnostics for the xsc compiler
// pipeline. Every pass (parser, binder, reference analyzer, converter,
// emitter) reports errors and warnings as Report values; nothing is printed
// directly by the core.
package diag

import (
	"fmt"
	"strings"
)

// Severity classifies a Report.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Area is a byte-range source location: a position plus a length in bytes.
// Mirrors hlsl.Area without importing it, so diag has no dependency on the
// AST package; hlsl.Area is convertible to diag.Area by field assignment.
type Area struct {
	Row, Col uint32
	Offset   uint32
	Length   uint32
}

// Report is a single diagnostic. Area is nil for pipeline-configuration
// failures that have no source location (spec: "Error(msg) without area is
// reserved for pipeline-configuration failures").
type Report struct {
	Severity Severity
	Message  string
	Area     *Area
	Source   string // full source text, for excerpt rendering
}

// Error implements the error interface so a Report can be returned/wrapped
// directly by pipeline stages that abort.
func (r *Report) Error() string {
	if r.Area == nil {
		return fmt.Sprintf("%s: %s", r.Severity, r.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", r.Area.Row, r.Area.Col, r.Severity, r.Message)
}

// Excerpt returns the offending source line with a caret under the column,
// or "" if no area/source is available.
func (r *Report) Excerpt() string {
	if r.Area == nil || r.Source == "" {
		return ""
	}
	lines := strings.Split(r.Source, "\n")
	row := int(r.Area.Row)
	if row < 1 || row > len(lines) {
		return ""
	}
	line := lines[row-1]
	col := int(r.Area.Col)
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  --> line %d:%d\n", row, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", row, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

// FormatWithContext formats the report's message followed by its excerpt.
func (r *Report) FormatWithContext() string {
	base := fmt.Sprintf("%s: %s", r.Severity, r.Message)
	if excerpt := r.Excerpt(); excerpt != "" {
		return base + "\n" + excerpt
	}
	return base
}

// NewError builds an Error-severity report anchored at area.
func NewError(message string, area *Area, source string) *Report {
	return &Report{Severity: Error, Message: message, Area: area, Source: source}
}

// NewErrorf builds a formatted Error-severity report anchored at area.
func NewErrorf(area *Area, source, format string, args ...any) *Report {
	return NewError(fmt.Sprintf(format, args...), area, source)
}

// NewWarningf builds a formatted Warning-severity report anchored at area.
func NewWarningf(area *Area, source, format string, args ...any) *Report {
	return &Report{Severity: Warning, Message: fmt.Sprintf(format, args...), Area: area, Source: source}
}

// Reports is an ordered collection of diagnostics produced by one pipeline
// stage or the whole pipeline.
type Reports []*Report

// Add appends a report.
func (rs *Reports) Add(r *Report) {
	*rs = append(*rs, r)
}

// Addf appends a formatted Error-severity report.
func (rs *Reports) Addf(area *Area, source, format string, args ...any) {
	rs.Add(NewErrorf(area, source, format, args...))
}

// Warnf appends a formatted Warning-severity report.
func (rs *Reports) Warnf(area *Area, source, format string, args ...any) {
	rs.Add(NewWarningf(area, source, format, args...))
}

// HasErrors reports whether any Error-severity diagnostic is present.
func (rs Reports) HasErrors() bool {
	for _, r := range rs {
		if r.Severity == Error {
			return true
		}
	}
	return false
}

// FirstError returns the first Error-severity report, or nil.
func (rs Reports) FirstError() *Report {
	for _, r := range rs {
		if r.Severity == Error {
			return r
		}
	}
	return nil
}

// FormatAll renders every report with source context, one per line group.
func (rs Reports) FormatAll() string {
	var sb strings.Builder
	for i, r := range rs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.FormatWithContext())
	}
	return sb.String()
}

// Error implements the error interface over the whole collection, letting a
// Reports value be returned directly as a pipeline-abort error.
func (rs Reports) Error() string {
	if len(rs) == 0 {
		return "no diagnostics"
	}
	if len(rs) == 1 {
		return rs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more diagnostics)", rs[0].Error(), len(rs)-1)
}
