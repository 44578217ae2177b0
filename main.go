package main

import (
	"go.hammerjs.dev/hammer/cmd"
)

func main() {
	cmd.Execute()
}
