package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glintlang/glint/glint"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	function := fs.String("function", "", "invoke this function instead of the top level")
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	scientific := fs.Bool("scientific", false, "enable scientific-mode call rewriting")
	steps := fs.Int("steps", 0, "evaluation step quota (0 uses the default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("glint run: script path required")
	}
	scriptPath := remaining[0]
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	engine := glint.NewEngine(glint.Config{
		ScientificMode: *scientific,
		StepQuota:      *steps,
	})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	var result glint.Value
	if *function != "" {
		callArgs := make([]glint.Value, len(remaining)-1)
		for i, raw := range remaining[1:] {
			callArgs[i] = glint.NewString(raw)
		}
		result, err = script.Call(context.Background(), *function, callArgs, glint.RunOptions{})
	} else {
		result, err = script.Run(context.Background(), glint.RunOptions{})
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNil() {
		fmt.Println(result.String())
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintf(os.Stderr, "  run [flags] <script> [args...]  compile and execute a script\n")
	fmt.Fprintf(os.Stderr, "  repl                            start an interactive session\n")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -function string")
	fmt.Fprintln(os.Stderr, "    invoke this function instead of the top level")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the script without executing")
	fmt.Fprintln(os.Stderr, "  -scientific")
	fmt.Fprintln(os.Stderr, "    enable scientific-mode call rewriting")
	fmt.Fprintln(os.Stderr, "  -steps int")
	fmt.Fprintln(os.Stderr, "    evaluation step quota (0 uses the default)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
