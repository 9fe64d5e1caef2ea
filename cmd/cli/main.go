package main

import "animehub/cmd/cli/command"

func main() {
	command.Execute()
}
