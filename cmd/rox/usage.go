package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rox <script.rox>")
	fmt.Fprintln(os.Stderr, "  rox run [script.rox]")
	fmt.Fprintln(os.Stderr, "  rox tokens <script.rox>")
	fmt.Fprintln(os.Stderr, "  rox ast <script.rox>")
	fmt.Fprintln(os.Stderr, "  rox deps install")
	fmt.Fprintln(os.Stderr, "  rox deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  rox --version")
}
