// Command lumen is the Lumen language's command-line front end: it runs
// programs (each is type-checked before it is evaluated), starts the
// interactive REPL, and prints version, about and help text.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	lumenerrors "github.com/lumen-lang/lumen/internal/errors"
	"github.com/lumen-lang/lumen/internal/module"
	"github.com/lumen-lang/lumen/internal/repl"
)

var (
	// Version is set by ldflags during release builds.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		return
	}

	switch flag.Arg(0) {
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			fmt.Println("Usage: lumen run <file.lu>")
			os.Exit(1)
		}
		runFile(flag.Arg(1))
	case "repl":
		repl.New(Version).Start(os.Stdout)
	case "version":
		printVersion()
	case "about":
		printAbout()
	case "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func runFile(filename string) {
	loader := module.NewLoader()
	_, err := loader.LoadEntry(filename)
	if err != nil {
		printError(filename, err)
		os.Exit(1)
	}
	fmt.Printf("%s %s ran successfully\n", green("✓"), filename)
}

func printError(filename string, err error) {
	if report, ok := lumenerrors.AsReport(err); ok {
		source := ""
		if b, readErr := os.ReadFile(filename); readErr == nil {
			source = string(b)
		}
		fmt.Fprint(os.Stderr, lumenerrors.Render(report, source))
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
}

func printVersion() {
	fmt.Printf("Lumen %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printAbout() {
	printVersion()
	fmt.Println()
	fmt.Println("Lumen is a small statically-typed language with traits, pattern")
	fmt.Println("matching, and a module system resolved by dotted name.")
}

func printHelp() {
	fmt.Println(bold("Lumen"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lumen <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>   Run a Lumen program\n", cyan("run"))
	fmt.Printf("  %s          Start the interactive REPL\n", cyan("repl"))
	fmt.Printf("  %s       Print version information\n", cyan("version"))
	fmt.Printf("  %s         Print a short description of Lumen\n", cyan("about"))
	fmt.Printf("  %s          Show this help message\n", cyan("help"))
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s          # Start REPL\n", cyan("lumen repl"))
	fmt.Printf("  %s   # Run a program\n", cyan("lumen run hello.lu"))
}
