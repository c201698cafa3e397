package main

import "tdl/pkg/cli"

func main() {
	cli.Execute()
}
