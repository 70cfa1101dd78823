package main

import (
	"fmt"
	"os"

	"covlens/cmd/covlens/app"
)

func main() {
	if err := app.NewCovlensCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
