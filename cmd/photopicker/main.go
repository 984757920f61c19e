package main

import "github.com/jask/photopicker/internal/cli"

func main() {
	cli.Execute()
}
