package main

import cmd "github.com/rohmanhakim/blocklist-tracker/internal/cli"

func main() {
	cmd.Execute()
}
