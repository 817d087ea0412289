package main

import "github.com/BeamlakAschalew/movie-providers/cmd"

func main() {
	cmd.Execute()
}
