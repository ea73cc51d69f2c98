package main

import "github.com/bossrus/workflow-go/cmd"

func main() {
	cmd.Execute()
}
