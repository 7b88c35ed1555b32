package main

import (
	"github.com/MeKo-Tech/runlens/cmd/runlens/cmd"
)

func main() {
	cmd.Execute()
}
