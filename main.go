package main

import "multiblog/cmd"

func main() {
	cmd.Execute()
}
