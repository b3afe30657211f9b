package main

import "github.com/xvierd/hookscope/cmd"

func main() {
	cmd.Execute()
}
