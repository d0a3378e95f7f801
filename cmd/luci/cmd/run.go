package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/pkg/luci"
)

var (
	interactive bool
	statistics  bool
)

func init() {
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive REPL")
	rootCmd.Flags().BoolVarP(&statistics, "statistics", "s", false, "print a run-complete notice to stderr after running (no counters are reported)")
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = runRoot
}

// runRoot is the root command's body: a positional script file, `-i` for
// a REPL, or, with neither, the whole of stdin run as one script when
// stdin is not a terminal and a REPL when it is — matching the teacher's CLI front end's file-or-interactive split,
// generalized with github.com/mattn/go-isatty the way funvibe-funxy's
// internal/evaluator/builtins_term.go decides terminal-vs-pipe behavior.
func runRoot(cmd *cobra.Command, args []string) error {
	if showVersion {
		printVersion()
		return nil
	}

	engine, _ := luci.New(luci.WithOutput(os.Stdout), luci.WithTypeCheck(true))

	if len(args) == 1 {
		return runFile(engine, args[0])
	}
	if interactive {
		return runREPL(engine)
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runStdinScript(engine)
	}
	return runREPL(engine)
}

// runStdinScript treats piped stdin as a whole script, as opposed to the
// line-at-a-time REPL used on an actual terminal.
func runStdinScript(engine *luci.Engine) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitCode = 2
		return err
	}
	result, err := engine.RunString(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return err
	}
	if exitVal, ok := result.Value.(*interp.ExitValue); ok {
		exitCode = exitVal.Code
	}
	return nil
}

func runFile(engine *luci.Engine, path string) error {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "luci: cannot read %s: %v\n", path, err)
		exitCode = 2
		return err
	}

	result, err := engine.RunFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return err
	}

	if exitVal, ok := result.Value.(*interp.ExitValue); ok {
		exitCode = exitVal.Code
	}
	if statistics {
		printStatistics()
	}
	return nil
}

func runREPL(engine *luci.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	prompt := isatty.IsTerminal(os.Stdin.Fd())
	for {
		if prompt {
			fmt.Fprint(os.Stdout, "luci> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		result, err := engine.RunString(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result.Value != nil {
			fmt.Fprintln(os.Stdout, result.Value.Inspect())
		}
	}
	if statistics {
		printStatistics()
	}
	return nil
}

func printStatistics() {
	fmt.Fprintln(os.Stderr, "luci: run complete")
}
