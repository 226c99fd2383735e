package main

import (
	"os"

	"branchsync/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
