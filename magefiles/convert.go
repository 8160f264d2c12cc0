package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts the folder named by $INPUT (default:
// the current directory) without recording history.
func Convert() error {
	mg.Deps(Build)

	input := os.Getenv("INPUT")
	if input == "" {
		input = "."
	}
	fmt.Printf("[convert] Converting HEIC files under %s\n", input)
	return sh.RunV("./"+binDir+"/"+binName, "convert", input, "--no-history")
}
