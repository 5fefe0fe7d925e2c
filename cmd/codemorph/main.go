package main

import "codemorph/internal/cli"

func main() {
	cli.Execute()
}
