package main

import (
	"os"

	"github.com/lexaid-ng/lexaid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
