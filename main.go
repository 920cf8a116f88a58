/*
Package main
File: main.go
Description: Process entry point. Hands control to the clicker CLI, whose
`serve` command restores the save, runs the game loop and serves the
HTTP/WebSocket API.
*/

package main

import "github.com/everforgeworks/healing-clicker/internal/cli"

func main() {
	cli.Execute()
}
