package main

import "github.com/myankochan/scff-imaging-core/cmd/scffcore/commands"

func main() {
	commands.Execute()
}
