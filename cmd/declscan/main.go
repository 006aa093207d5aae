package main

import "github.com/declscan/declscan/internal/cli"

func main() {
	cli.Execute()
}
