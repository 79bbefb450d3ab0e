package main

import "priceview/internal/cli"

func main() {
	cli.Execute()
}
