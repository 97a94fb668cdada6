package main

import (
	"os"

	"github.com/myblog/core/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
