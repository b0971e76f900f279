package main

import "github.com/releaserite/cmd"

func main() {
	cmd.Execute()
}
