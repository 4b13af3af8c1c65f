package main

import "scribe/internal/cli"

func main() {
	cli.Execute()
}
