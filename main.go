package main

import "github.com/twiced-technology-gmbh/weekgrid/cmd"

func main() {
	cmd.Execute()
}
