package main

import "github.com/arwindpianist/showcase/cmd"

func main() {
	cmd.Execute()
}
