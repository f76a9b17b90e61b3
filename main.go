package main

import "github.com/yatube/yatube-services/cmd"

func main() {
	cmd.Execute()
}
