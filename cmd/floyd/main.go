/*
Floyd starts an interactive parser session against a PEG grammar file.

It reads in a grammar, compiles it, and then reads lines of input text from
stdin, parsing each one against the grammar's starting rule (or a rule
named with -s) and printing the resulting value or error.

Usage:

	floyd [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of floyd and then exit.

	-s, --start RULE
		Parse using RULE instead of the grammar's declared starting rule.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even if launched in a
		tty with stdin and stdout.

	-c, --input TEXT
		Immediately parse the given input text at start. Can be multiple
		inputs separated by the ";" character.

To exit the interpreter, type ":quit" or send EOF.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/floyd"
	"github.com/dekarrin/floyd/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates an unsuccessful program execution due to a
	// problem running the interactive session.
	ExitParseError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue compiling the grammar or starting the session.
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	startRule   = pflag.StringP("start", "s", "", "Parse using this rule instead of the grammar's declared starting rule")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startInput  = pflag.StringP("input", "c", "", "Immediately parse the given input text(s) at start, separated by ';'")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing GRAMMAR_FILE argument")
		returnCode = ExitInitError
		return
	}
	grammarPath := pflag.Arg(0)

	src, err := os.ReadFile(grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading grammar file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	g, err := floyd.Compile(string(src), grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	var initialInputs []string
	if *startInput != "" {
		initialInputs = strings.Split(*startInput, ";")
	}

	eng, initErr := floyd.New(os.Stdin, os.Stdout, g, *startRule, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(initialInputs); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}
}
