package main

import "github.com/dkooll/mcpbridge/internal/cli"

func main() {
	cli.Execute()
}
