package main

import "github.com/kaido-cli/kaido/cmd"

func main() {
	cmd.Execute()
}
