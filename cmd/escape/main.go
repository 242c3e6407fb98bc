package main

import (
	"github.com/mchmarny/escape/pkg/cli"
)

func main() {
	cli.Execute()
}
