package main

import "github.com/diogo/geministudio/internal/commands"

func main() {
	commands.Execute()
}
