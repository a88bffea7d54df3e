package main

import "github.com/naka-gawa/github-archiver/cmd"

func main() {
	cmd.Execute()
}
