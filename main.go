package main

import (
	"os"

	"github.com/pivolan/genbi/cli"
)

func main() {
	os.Exit(cli.Execute())
}
