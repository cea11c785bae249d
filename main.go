package main

import "github.com/jsphweid/handex/cmd"

func main() {
	cmd.Execute()
}
