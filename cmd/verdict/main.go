package main

import (
	"os"

	"github.com/verdict-dev/verdict/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
