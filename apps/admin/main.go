package main

import (
	"log"
	"os"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
	logsvc "github.com/brainbuddy/portal/services/logger"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	logger := logsvc.NewConsoleLogger(std)

	cli := commandLine{
		conf:   conf,
		client: backend.NewClient(conf, logger),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
