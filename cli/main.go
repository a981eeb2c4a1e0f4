package main

import (
	"github.com/mwantia/textdb/cmd"
)

func main() {
	cmd.Execute()
}
