package main

import (
	"github.com/rustyeddy/tsxledger/internal/cli"
)

func main() {
	cli.Execute()
}
