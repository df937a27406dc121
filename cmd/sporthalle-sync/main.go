package main

import "github.com/jbehrens/sporthalle-sync/internal/cli"

func main() {
	cli.Execute()
}
