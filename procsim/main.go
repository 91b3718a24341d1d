// Package main is the entry point of the procsim command.
package main

import "github.com/procstate/procsim/procsim/cmd"

func main() {
	cmd.Execute()
}
