package main

import (
	"fmt"
	"os"

	"openingfinder/internal/app"
)

func main() {
	if err := app.Run(os.Args[1:], app.StdIO()); err != nil {
		fmt.Fprintf(os.Stderr, "openingfinder: %v\n", err)
		os.Exit(1)
	}
}
