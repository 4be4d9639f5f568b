package main

import (
	_ "time/tzdata"

	"github.com/gogoref/gogoref/internal/cli"
)

func main() {
	cli.Execute()
}
