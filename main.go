package main

import "github.com/mpapenbr/clash-manager-go/cmd"

func main() {
	cmd.Execute()
}
