package main

import "github.com/mcoot/clickgame-go/internal/cli"

func main() {
	cli.Execute()
}
