// main is the entry point for the gitasana CLI.
package main

import (
	"github.com/rehman-1/git-asana-backend/cmd"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("gitasana failed", err)
	}
}
