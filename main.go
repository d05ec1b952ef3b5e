package main

import "github.com/naka-gawa/gh-retest/cmd"

func main() {
	cmd.Execute()
}
