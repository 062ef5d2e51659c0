package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/VivekMaurya83/LawDecodes/internal/adapters/driving/cli"
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
