package main

import "image-labeler/cmd"

func main() {
	cmd.Execute()
}
