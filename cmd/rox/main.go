package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "rox 0.1.0"

// Exit codes follow the sysexits.h conventions.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "run":
		return runEntry(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		if len(args) > 1 {
			printUsage()
			return exitUsage
		}
		return runEntry(args)
	}
}
