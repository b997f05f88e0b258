package main

import (
	"github.com/foomo/guitarserver/cmd"
)

func main() {
	cmd.Execute()
}
