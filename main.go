package main

import "github.com/iksnae/hookchat/cmd"

func main() {
	cmd.Execute()
}
