package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/rah/cmd/rah"
	"github.com/arthur-debert/rah/internal/version"
)

// With a directory argument one page per command is written there;
// otherwise the root page goes to stdout.
func main() {
	rootCmd := rah.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "RAH",
		Section: "8",
		Source:  "rah " + version.Version,
		Manual:  "rah manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
