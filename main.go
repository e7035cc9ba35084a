package main

import "github.com/blazskufca/lox_in_go/commands"

// main hands control to the lox command line, see the commands package.
func main() {
	commands.Execute()
}
