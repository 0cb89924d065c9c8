// main is the entry point for the whodunit CLI.
package main

import (
	"github.com/huangsam/whodunit/cmd"
	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("whodunit failed", err)
	}
}
