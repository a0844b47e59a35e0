package main

import (
	"log/slog"
	"os"

	"logicbot/app/cli"
	"logicbot/app/util/mylog"
)

func main() {
	mylog.Preinit()

	if err := cli.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
