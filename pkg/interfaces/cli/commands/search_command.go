package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/application/services/orchestration"
	"github.com/vsinha/plafosus/pkg/application/services/search"
	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
	"github.com/vsinha/plafosus/pkg/infrastructure/config"
	"github.com/vsinha/plafosus/pkg/infrastructure/events"
	"github.com/vsinha/plafosus/pkg/infrastructure/geometry"
	"github.com/vsinha/plafosus/pkg/infrastructure/logging"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/plafosus/pkg/infrastructure/repositories/yamlfile"
	"github.com/vsinha/plafosus/pkg/interfaces/cli/output"
)

// Config holds configuration for the search command
type Config struct {
	ScenarioFile string
	CatalogDir   string
	PartID       string
	OutputDir    string
	Format       string
	DBPath       string
	ConfigFile   string
	MetricsAddr  string
	Verbose      bool
	Help         bool
}

// SearchCommand creates the parts of a scenario and reports their ranked solutions
type SearchCommand struct {
	config Config
	stdout io.Writer
}

// NewSearchCommand creates a new search command with the given configuration
func NewSearchCommand(config Config) *SearchCommand {
	return &SearchCommand{
		config: config,
		stdout: os.Stdout,
	}
}

// WithOutput redirects the report and help output
func (c *SearchCommand) WithOutput(w io.Writer) *SearchCommand {
	c.stdout = w
	return c
}

// Execute runs the search command
func (c *SearchCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	appConfig, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return err
	}
	if c.config.DBPath != "" {
		appConfig.Store.Path = c.config.DBPath
	}
	if c.config.MetricsAddr != "" {
		appConfig.Metrics.Addr = c.config.MetricsAddr
	}
	if c.config.Verbose {
		appConfig.Log.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:       appConfig.Log.Level,
		Format:      appConfig.Log.Format,
		Development: appConfig.Log.Development,
	})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if appConfig.Metrics.Addr != "" {
		shutdown := c.serveMetrics(appConfig.Metrics.Addr, logger)
		defer shutdown()
	}

	scenario, err := yamlfile.LoadFile(c.config.ScenarioFile)
	if err != nil {
		return fmt.Errorf("error loading scenario: %w", err)
	}

	catalogRepo := scenario.Catalog
	if c.config.CatalogDir != "" {
		catalogRepo, err = csv.NewLoader().LoadCatalog(c.config.CatalogDir)
		if err != nil {
			return fmt.Errorf("error loading catalog: %w", err)
		}
	}

	parts, err := c.selectParts(scenario)
	if err != nil {
		return err
	}

	logger.Info("scenario loaded",
		zap.String("scenario", c.config.ScenarioFile),
		zap.Int("parts", len(parts)))

	solutionRepo, closeStore, err := openSolutionRepository(appConfig.Store.Path)
	if err != nil {
		return err
	}
	defer closeStore()

	auditLog := events.NewMemoryLog()
	searchService := search.NewService(
		search.Config{
			MaxPermutations:     appConfig.Search.MaxPermutations,
			Workers:             appConfig.Search.Workers,
			ComparisonPrecision: appConfig.Evaluation.ComparisonPrecision,
		},
		catalogRepo,
		solutionRepo,
		auditLog,
		logger,
	)
	orchestrator := orchestration.NewPartOrchestrator(
		memory.NewPartRepository(len(parts)),
		catalogRepo,
		searchService,
		geometry.NewAnalyzer(logger),
		logger,
	)

	startTime := time.Now()
	results := make([]*dto.PartCreationResult, 0, len(parts))
	for _, part := range parts {
		result, err := orchestrator.CreatePart(ctx, part)
		if err != nil {
			return fmt.Errorf("error creating part %s: %w", part.ID, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		results = append(results, result)

		if c.config.Verbose {
			fmt.Fprintf(c.stdout, "📊 %s\n", result.GetSummary())
		}
	}

	eventCounts := auditLog.CountByType()
	logger.Info("scenario searched",
		zap.Int("parts", len(results)),
		zap.Int("events", len(auditLog.Since(0))),
		zap.Int("failed_searches", eventCounts[events.SearchFailedEvent]),
		zap.Int("possibilities_discarded", eventCounts[events.PossibilityDiscardedEvent]),
		zap.Duration("duration", time.Since(startTime)))

	err = output.Generate(results, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.stdout,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *SearchCommand) validateInputs() error {
	if c.config.ScenarioFile == "" {
		return fmt.Errorf("must specify a -scenario file")
	}
	if !slices.Contains(output.Formats, c.config.Format) {
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	if c.config.Format == "csv" && c.config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	return nil
}

func (c *SearchCommand) selectParts(scenario *yamlfile.Scenario) ([]*entities.Part, error) {
	if c.config.PartID == "" {
		if len(scenario.Parts) == 0 {
			return nil, fmt.Errorf("scenario %s contains no parts", c.config.ScenarioFile)
		}
		return scenario.Parts, nil
	}

	part, ok := scenario.Part(entities.PartID(c.config.PartID))
	if !ok {
		return nil, fmt.Errorf("part %s: %w", c.config.PartID, repositories.ErrNotFound)
	}
	return []*entities.Part{part}, nil
}

func openSolutionRepository(path string) (repositories.SolutionRepository, func(), error) {
	if path == "" {
		return memory.NewSolutionRepository(), func() {}, nil
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open solution store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// serveMetrics exposes the Prometheus metrics while the command runs
func (c *SearchCommand) serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}
}

// showHelp displays the help message
func (c *SearchCommand) showHelp() {
	fmt.Fprint(c.stdout, `plafosus - manufacturing solution search

Finds every feasible way to manufacture a part with the resources of a
catalog, costs each one by price, time and CO2, and ranks them.

USAGE:
    plafosus -scenario <file> [-part <id>]

OPTIONS:
    -scenario <file>      Scenario YAML file with the catalog and the parts
    -catalog <dir>        Load the catalog from CSV master data instead of the scenario
    -part <id>            Only create and search this part (default: all parts)
    -output <dir>         Output directory for results (optional)
    -format <fmt>         Output format: text, json, csv (default: text)
    -db <path>            SQLite database for solution spaces (default: in memory)
    -config <file>        Configuration file (YAML, JSON or TOML)
    -metrics-addr <addr>  Serve Prometheus metrics on this address while running
    -verbose              Enable verbose output
    -help                 Show this help message

CONFIGURATION:
    search.max_permutations        largest solution space per run (default 100000, 0 = unlimited)
    search.workers                 possibilities costed in parallel (default: number of CPUs)
    evaluation.comparison_precision decimals comparison values are rounded to (default 3)
    log.level, log.format          zap level and encoding (json or console)
    store.path, metrics.addr       same as -db and -metrics-addr

    Every key can be overridden by an environment variable, e.g.
    PLAFOSUS_SEARCH_WORKERS=4.

CSV MASTER DATA:
    masterdata/
    ├── requirements.csv       id,name,data_type,unit
    ├── process_steps.csv      id,name,unit
    ├── skills.csv             id,name,process_step_id
    ├── resources.csv          id,name
    ├── resource_skills.csv    id,resource_id,skill_id,fixed_price,fixed_time,fixed_co2,
    │                          variable_price,variable_time,variable_co2
    ├── consumables.csv        id,name,unit (optional)
    ├── abilities.csv          resource_skill_id,requirement_id,value (optional)
    └── skill_consumables.csv  resource_skill_id,consumable_id,fixed_quantity,
                               variable_quantity,price,co2 (optional)

EVALUATION METHODS:
    field     rank by the most important criterion, ties broken by the next one
    weighted  rank by the importance-weighted sum of normalized criteria
    critic    rank by the CRITIC-weighted sum of normalized criteria

EXAMPLES:
    # Search all parts of the example scenario
    plafosus -scenario example/bracket.yaml -verbose

    # Rank one part and store the solution space
    plafosus -scenario example/bracket.yaml -part BRACKET -db solutions.db

    # Use CSV master data with the parts of a scenario
    plafosus -scenario parts.yaml -catalog masterdata/

    # Export the ranked permutations as CSV
    plafosus -scenario example/bracket.yaml -format csv -output results/
`)
}
