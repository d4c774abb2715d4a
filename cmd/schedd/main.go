package main

import "github.com/cs-24-sw-8-04/scheduling/internal/cli"

func main() {
	cli.Execute()
}
