package main

import "github.com/navipath/navigation-platform/cmd"

func main() {
	cmd.Execute()
}
