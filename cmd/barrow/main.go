/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/barrow/cmd/barrow/cmd"
)

func main() {
	cmd.Execute()
}
