package main

import "github.com/ess-tools/attend/cmd"

func main() {
	cmd.Execute()
}
