package main

import (
	"os"

	"github.com/goliatone/go-auth-bookmarks/cmd/bookmarks/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
