package main

import "hostgrip/internal/cli"

func main() {
	cli.Execute()
}
