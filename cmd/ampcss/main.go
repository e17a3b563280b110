package main

import (
	"fmt"
	"os"

	"github.com/ampgo/ampcss/internal/logger"
	"github.com/ampgo/ampcss/pkg/ampcss"
)

var helpText = `
Usage:
  ampcss [options] <input.html>

Options:
  --root=PATH       Add PATH as a <link href> resolution root (repeatable)
  --color=...       Force use of color terminal escapes (true | false)
  -h, --help        Print this help text
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(osArgs []string) int {
	var inputPath string
	var roots []string
	color := logger.ColorIfTerminal

	for _, arg := range osArgs {
		switch {
		case arg == "-h" || arg == "--help":
			fmt.Print(helpText)
			return 0
		case len(arg) > len("--root=") && arg[:len("--root=")] == "--root=":
			roots = append(roots, arg[len("--root="):])
		case arg == "--color=true":
			color = logger.ColorAlways
		case arg == "--color=false":
			color = logger.ColorNever
		case len(arg) > 0 && arg[0] != '-':
			inputPath = arg
		}
	}

	if inputPath == "" {
		logger.PrintErrorToStderr(osArgs, "missing input HTML file")
		return 1
	}

	contents, err := os.ReadFile(inputPath)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf("could not read %q: %s", inputPath, err.Error()))
		return 1
	}

	result, err := ampcss.Sanitize(string(contents), ampcss.Options{
		Roots:      roots,
		FileExists: func(path string) bool { _, err := os.Stat(path); return err == nil },
		ReadFile:   func(path string) (string, error) { b, err := os.ReadFile(path); return string(b), err },
	})
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}

	stderrLog := logger.NewStderrLog(logger.OutputOptions{IncludeSource: true, Color: color})
	for _, msg := range result.Log {
		stderrLog.AddMsg(msg)
	}
	stderrLog.AlmostDone()
	stderrLog.Done()

	fmt.Print(result.HTML)
	return 0
}
