// Package main is the entry point for the fcx CLI tool.
package main

import (
	"github.com/compasshq/fcx/internal/cmd"
)

func main() {
	cmd.Execute()
}
