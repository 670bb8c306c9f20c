package main

import "dcmconvert/cmd"

func main() {
	cmd.Execute()
}
