// Package main (missingkeys) :
// CLI tool to diff the keys of a localization file against the reference
// en.ftl shipped next to the executable.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/afishhh/ftlman/internal/ftl"
)

const appname = "missingkeys"

// referenceFilename : The English bundle every translation is checked
// against. It lives next to the tool itself, not in the working directory.
const referenceFilename = "en.ftl"

// handler : Resolve the reference file and run the check.
func handler(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("file is required")
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	ref := filepath.Join(filepath.Dir(exe), referenceFilename)
	return run(c.Args().First(), ref, os.Stdout)
}

// run : Report every key of ref absent from target and every key of target
// absent from ref. Within each category the order is whatever the set
// iteration yields.
func run(target, ref string, w io.Writer) error {
	refKeys, err := ftl.ExtractFileKeys(ref)
	if err != nil {
		return err
	}
	targetKeys, err := ftl.ExtractFileKeys(target)
	if err != nil {
		return err
	}
	diff := ftl.Diff(refKeys, targetKeys)
	targetName := filepath.Base(target)
	refName := filepath.Base(ref)
	for _, key := range diff.Missing {
		fmt.Fprintf(w, "Key '%s' is missing in %s but present in %s\n", key, targetName, refName)
	}
	for _, key := range diff.Extra {
		fmt.Fprintf(w, "Key '%s' is present in %s but not in %s\n", key, targetName, refName)
	}
	return nil
}

// createHelp : Create help document.
func createHelp() *cli.App {
	a := cli.NewApp()
	a.Name = appname
	a.Usage = "Check a localization file for keys missing from or absent in the reference " + referenceFilename + "."
	a.ArgsUsage = "file"
	a.Version = "1.0.0"
	return a
}

// main : Main of this script
func main() {
	a := createHelp()
	a.Action = handler
	err := a.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
