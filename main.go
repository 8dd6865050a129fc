package main

import "github.com/pcharbon/chorus/cmd"

func main() {
	cmd.Execute()
}
