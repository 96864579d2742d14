package main

import "github.com/oshokin/upcast/cmd/upcast/cmd"

func main() {
	cmd.Execute()
}
