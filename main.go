package main

import "github.com/stayfix/stayfix/cmd"

func main() {
	cmd.Execute()
}
