package main

import "github.com/alexiusacademia/gotakeoff/cmd"

func main() {
	cmd.Execute()
}
