package main

import "github.com/felt-labs/tellscan-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
