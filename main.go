package main

import "github.com/gsivak487/emrgent-labs/cmd"

func main() {
	cmd.Execute()
}
