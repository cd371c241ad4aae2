package main

import "target-platform/internal/cli"

func main() {
	cli.Execute()
}
