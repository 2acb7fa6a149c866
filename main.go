package main

import (
	"github.com/chenhsu16/jax-cfd/cmd"
)

func main() {
	cmd.Execute()
}
