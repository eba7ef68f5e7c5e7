package main

import (
	"os"

	"github.com/sysmlkit/sysmlkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
