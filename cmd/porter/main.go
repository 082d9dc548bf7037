package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/nucypher/go-porter/api"
	"github.com/nucypher/go-porter/api/porterhandler"
	"github.com/nucypher/go-porter/cmd/flags"
	"github.com/nucypher/go-porter/common"
	"github.com/nucypher/go-porter/directory"
	"github.com/nucypher/go-porter/httpserver"
)

func main() {
	app := &cli.App{
		Name:    "porter",
		Usage:   "Serve and query the porter re-encryption gateway",
		Version: common.Version,
		Commands: []*cli.Command{
			runCommand(),
			getUrsulasCommand(),
			retrieveCFragsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the porter API server",
		Flags: append(append([]cli.Flag{}, flags.ServerFlags...), flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			nodeFile := cCtx.String(flags.NodeFileFlag.Name)
			logger.Info("Loading node directory", "file", nodeFile)
			dir, err := directory.LoadFile(nodeFile)
			if err != nil {
				logger.Error("Failed to load node directory", "err", err)
				return err
			}
			logger.Info("Node directory loaded", "nodes", dir.Len())

			handler := porterhandler.NewHandler(dir, directory.OfflineRetriever{}, logger)

			server, err := httpserver.New(flags.ConfigureServer(cCtx, logger), handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}
}

func getUrsulasCommand() *cli.Command {
	spec := api.GetUrsulasSchema()
	return &cli.Command{
		Name:  "get-ursulas",
		Usage: "Sample Ursula nodes from a remote porter",
		Flags: append(append(spec.CLIFlags(), flags.PorterURLFlag), flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			raw := spec.RawFromCLI(cCtx)
			if _, err := spec.Load(raw); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			ursulas, err := porterhandler.GetUrsulas(cCtx.String(flags.PorterURLFlag.Name), raw)
			if err != nil {
				return err
			}

			dumped, err := spec.Dump(map[string]any{api.FieldUrsulas: ursulas})
			if err != nil {
				return err
			}
			return printJSON(dumped)
		},
	}
}

func retrieveCFragsCommand() *cli.Command {
	spec := api.RetrieveCFragsSchema()
	return &cli.Command{
		Name:  "retrieve-cfrags",
		Usage: "Retrieve re-encrypted capsule fragments through a remote porter",
		Flags: append(append(spec.CLIFlags(), flags.PorterURLFlag), flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			raw := spec.RawFromCLI(cCtx)
			if _, err := spec.Load(raw); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			outcomes, err := porterhandler.RetrieveCFrags(cCtx.String(flags.PorterURLFlag.Name), raw)
			if err != nil {
				return err
			}

			dumped, err := spec.Dump(map[string]any{api.FieldRetrievalResults: outcomes})
			if err != nil {
				return err
			}
			return printJSON(dumped)
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
