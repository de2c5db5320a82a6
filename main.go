package main

import "github.com/voxcorpus/promptrec/cmd"

func main() {
	cmd.Execute()
}
