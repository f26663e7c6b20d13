package main

import "keyfix/cmd/keyfix/cmd"

func main() {
	cmd.Execute()
}
