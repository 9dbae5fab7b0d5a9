// Package main is the entry point for the clooze CLI.
package main

import "gooze.dev/pkg/clooze/cmd"

func main() {
	cmd.Execute()
}
