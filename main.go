package main

import "github.com/karolswdev/campuscare/cmd"

func main() {
	cmd.Execute()
}
