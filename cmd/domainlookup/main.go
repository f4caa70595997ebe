package main

import (
	"os"
)

func main() {
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
