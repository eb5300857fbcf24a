package main

import (
	"github.com/kavach/whitebox/pkg/cli"
)

func main() {
	cli.Execute()
}
