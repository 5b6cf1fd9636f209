package main

import (
	"os"

	"github.com/abhisek/learnify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
