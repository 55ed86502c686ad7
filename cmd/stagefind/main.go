package main

import (
	"github.com/joho/godotenv"

	"github.com/stagefind/stagefind/internal/cli"
)

func main() {
	// Optional; credentials may come from the real environment instead.
	_ = godotenv.Load()

	cli.Execute()
}
