package main

import "attendkiosk/internal/cli"

func main() {
	cli.Execute()
}
