package main

import "github.com/frahmantamala/bragboard/cmd"

func main() {
	cmd.Execute()
}
