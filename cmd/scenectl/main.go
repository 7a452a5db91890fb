package main

import "github.com/relgraph/relgraph/cmd/scenectl/commands"

func main() {
	commands.Execute()
}
