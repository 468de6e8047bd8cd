package main

import "github.com/plainbook/plainbook/cmd"

func main() {
	cmd.Execute()
}
