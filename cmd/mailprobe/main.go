package main

import "github.com/probelabs/mailprobe/cmd/mailprobe/commands"

func main() {
	commands.Execute()
}
