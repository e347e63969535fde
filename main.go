package main

import "gerritkit/cmd"

func main() {
	cmd.Execute()
}
