package main

import (
	"github.com/openfield/pickup/internal/cli"
)

func main() {
	cli.Execute()
}
