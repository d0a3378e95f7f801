// Package cmd is the luci CLI's cobra command tree, grounded on the
// teacher's cmd/dwscript/cmd package (a package-level rootCmd whose own
// RunE runs scripts, a version subcommand, Execute() as the sole entry
// point called from main).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var showVersion bool

var rootCmd = &cobra.Command{
	Use:   "luci [file]",
	Short: "luci scripting language interpreter",
	Long: `luci is a tree-walking interpreter for a small, dynamically-typed,
optionally type-annotated scripting language with closures, user-defined
aggregate types, structured errors, iterators and a module system.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// exitCode is set by subcommands (run.go) before returning an error, so
// ExecuteWithExitCode can map program-level failures to the exact codes
// spec.md §6 names (1 = program Error, 2 = file unreadable) instead of
// cobra's blanket "any error -> exit 1".
var exitCode int

// ExecuteWithExitCode runs the root command and returns the process exit
// code alongside any error, per spec.md §6's exit-code contract.
func ExecuteWithExitCode() (int, error) {
	exitCode = 0
	err := rootCmd.Execute()
	if err != nil && exitCode == 0 {
		exitCode = 1
	}
	return exitCode, err
}

func init() {
	// -v/--version is handled here rather than via cobra's built-in
	// Command.Version (which defaults to a bare --version with no
	// shorthand), since spec.md §6 fixes "-v" as the version flag.
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version information")
}

func printVersion() {
	fmt.Printf("luci version %s\n", Version)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Build Date: %s\n", BuildDate)
}
