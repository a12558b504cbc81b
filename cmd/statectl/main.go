package main

import "github.com/mcoot/statesync/internal/cli"

func main() {
	cli.Execute()
}
