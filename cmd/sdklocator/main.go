package main

import "sdklocator/internal/cli"

func main() {
	cli.Execute()
}
