package main

import "github.com/VoxDroid/cqe/cmd"

func main() {
	cmd.Execute()
}
