package main

import "github.com/theirongolddev/adpace/cmd"

func main() {
	cmd.Execute()
}
