package main

import "github.com/syncuphq/syncup-analytics/internal/cli"

func main() {
	cli.Execute()
}
