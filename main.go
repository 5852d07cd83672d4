package main

import "opsboard/cmd"

func main() {
	cmd.Execute()
}
