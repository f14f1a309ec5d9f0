package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/callora/custody"
	custodyd "github.com/callora/custody/cmd/custodyd/app"
	"github.com/callora/custody/commands/server"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custodyd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "log level, for example \"main:info,state:debug,*:error\"")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("custodyd")
	fmt.Println("          Prepaid API billing custody node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server, -metrics <addr> serves prometheus metrics")
	fmt.Println("validate  Check that genesis files load into the application")
	fmt.Println("events    Print the journaled events as JSON")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.custodyd")
  -log_level string
        log level (default "info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := flags.ParseLogLevel(*varLogLevel,
		log.NewTMLogger(log.NewSyncWriter(os.Stdout)), "info")
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}
	logger = logger.With("module", "custody")

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(custodyd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(custodyd.GenerateApp, logger, *varHome, rest)
	case "validate":
		if len(rest) == 0 {
			rest = []string{server.GenesisPath(*varHome)}
		}
		err = server.ValidateGenesis(custodyd.Initializers(), rest)
	case "events":
		err = server.EventsCmd(filepath.Join(*varHome, custodyd.JournalName), os.Stdout, rest)
	case "version":
		fmt.Println(custody.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
