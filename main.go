package main

import (
	"os"

	"github.com/bvisness/scadflow/app/cli"
)

func main() {
	os.Exit(cli.Execute())
}
