package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/syncforge/forgeup/cmd"
)

func main() {
	// fang wires SIGINT/SIGTERM into the command context so an interrupted
	// install still runs its deferred temp-dir cleanup.
	if err := fang.Execute(
		context.Background(),
		cmd.RootCmd,
		fang.WithNotifySignal(syscall.SIGINT, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
