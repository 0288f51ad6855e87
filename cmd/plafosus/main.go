package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/plafosus/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioFile = flag.String(
			"scenario",
			"",
			"Path to scenario YAML file with the catalog and the parts",
		)
		catalogDir  = flag.String("catalog", "", "Directory with CSV master data replacing the scenario catalog (optional)")
		partID      = flag.String("part", "", "Only create and search this part (optional)")
		outputDir   = flag.String("output", "", "Output directory for results (optional)")
		format      = flag.String("format", "text", "Output format: text, json, csv")
		dbPath      = flag.String("db", "", "SQLite database for solution spaces (optional)")
		configFile  = flag.String("config", "", "Configuration file (optional)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (optional)")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioFile: *scenarioFile,
		CatalogDir:   *catalogDir,
		PartID:       *partID,
		OutputDir:    *outputDir,
		Format:       *format,
		DBPath:       *dbPath,
		ConfigFile:   *configFile,
		MetricsAddr:  *metricsAddr,
		Verbose:      *verbose,
		Help:         *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := commands.NewSearchCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
