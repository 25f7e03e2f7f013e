// Command xscc is the xsc HLSL-to-GLSL shader compiler CLI.
//
// Usage:
//
//	xscc [options] <input.hlsl>
//	xscc -config shaders.toml
//
// Examples:
//
//	xscc -stage fragment shader.hlsl                  # Compile to stdout
//	xscc -stage vertex -entry VSMain -o out.glsl a.hlsl
//	xscc -config shaders.toml                         # Batch compile
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"

	"github.com/gogpu/xsc"
	"github.com/gogpu/xsc/convert"
	"github.com/gogpu/xsc/diag"
	"github.com/gogpu/xsc/glsl"
)

var (
	output     = flag.String("o", "", "output file (default: stdout)")
	stageFlag  = flag.String("stage", "fragment", "shader stage: vertex, fragment, compute, tesscontrol, tesseval, geometry")
	entryPoint = flag.String("entry", "main", "entry-point function name")
	versionNum = flag.Int("version", 330, "target GLSL version (330, 400, 410, 420, 430, 450, 460, or 300/310/320 for ES)")
	esFlag     = flag.Bool("es", false, "target GLSL ES instead of desktop GLSL")
	configPath = flag.String("config", "", "TOML manifest of [[shader]] entries for batch compilation")
	versionFl  = flag.Bool("v", false, "print version")
)

const xsccVersion = "0.1.0-dev"

// shaderManifest is the shape read from -config, one [[shader]] table per
// translation unit.
type shaderManifest struct {
	Shader []shaderEntry `toml:"shader"`
}

type shaderEntry struct {
	Input      string `toml:"input"`
	Output     string `toml:"output"`
	Stage      string `toml:"stage"`
	EntryPoint string `toml:"entrypoint"`
	Version    int    `toml:"version"`
	ES         bool   `toml:"es"`
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFl {
		fmt.Printf("xscc version %s\n", xsccVersion)
		return
	}

	if *configPath != "" {
		runManifest(*configPath)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	stage, err := parseStage(*stageFlag)
	if err != nil {
		fatal(err)
	}

	runOne(shaderEntry{
		Input:      args[0],
		Output:     *output,
		Stage:      *stageFlag,
		EntryPoint: *entryPoint,
		Version:    *versionNum,
		ES:         *esFlag,
	}, stage)
}

func runManifest(path string) {
	var manifest shaderManifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		fatal(fmt.Errorf("reading manifest %s: %w", path, err))
	}
	for _, entry := range manifest.Shader {
		stage, err := parseStage(entry.Stage)
		if err != nil {
			fatal(fmt.Errorf("%s: %w", entry.Input, err))
		}
		runOne(entry, stage)
	}
}

func runOne(entry shaderEntry, stage convert.Stage) {
	source, err := os.ReadFile(entry.Input)
	if err != nil {
		fatal(fmt.Errorf("reading %s: %w", entry.Input, err))
	}

	entryPointName := entry.EntryPoint
	if entryPointName == "" {
		entryPointName = "main"
	}

	result, err := xsc.Compile(xsc.ShaderInput{
		Source:     string(source),
		EntryPoint: entryPointName,
		Stage:      stage,
	}, xsc.ShaderOutput{
		Version: glslVersion(entry.Version, entry.ES),
	})
	printDiagnostics(result.Diagnostics)
	if err != nil {
		fatal(fmt.Errorf("compiling %s: %w", entry.Input, err))
	}

	if entry.Output != "" {
		if err := os.WriteFile(entry.Output, []byte(result.Source), 0o644); err != nil {
			fatal(fmt.Errorf("writing %s: %w", entry.Output, err))
		}
		fmt.Printf("Successfully compiled %s to %s\n", entry.Input, entry.Output)
		return
	}
	fmt.Print(result.Source)
}

func glslVersion(number int, es bool) glsl.Version {
	if number == 0 {
		return glsl.Version330
	}
	return glsl.Version{Major: uint8(number / 100), Minor: uint8(number % 100), ES: es}
}

func parseStage(name string) (convert.Stage, error) {
	switch name {
	case "vertex":
		return convert.StageVertex, nil
	case "fragment", "":
		return convert.StageFragment, nil
	case "compute":
		return convert.StageCompute, nil
	case "tesscontrol":
		return convert.StageTessControl, nil
	case "tesseval":
		return convert.StageTessEval, nil
	case "geometry":
		return convert.StageGeometry, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", name)
	}
}

// printDiagnostics renders each diag.Report with its severity colorized,
// when writing to a terminal. fatih/color already detects non-tty output
// and disables escapes automatically, so a redirected stderr stays plain
// text.
func printDiagnostics(reports diag.Reports) {
	for _, r := range reports {
		sev := severityColor(r.Severity)
		fmt.Fprintln(os.Stderr, sev.Sprint(r.Severity.String())+": "+r.Excerpt())
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.Error:
		return color.New(color.FgRed, color.Bold)
	case diag.Warning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: xscc [options] <input.hlsl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  xscc -stage fragment shader.hlsl        Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  xscc -o out.glsl -stage vertex a.hlsl   Compile to file\n")
	fmt.Fprintf(os.Stderr, "  xscc -config shaders.toml               Batch compile\n")
}
