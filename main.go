package main

import "github.com/KaramelBytes/moviecorpus-cli/cmd"

func main() {
	cmd.Execute()
}
