package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/internal/audit"
	"github.com/dbower44022/CRMExtender-sub003/internal/config"
	"github.com/dbower44022/CRMExtender-sub003/internal/extract"
	"github.com/dbower44022/CRMExtender-sub003/internal/ingest"
	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
	"github.com/dbower44022/CRMExtender-sub003/internal/triage"
	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
	inputPath   = flag.String("input", "", "Path to a raw RFC822 message (default: stdin)")
	owner       = flag.String("owner", "", "Account owner identifier, excluded from the known-contact gate")
	knownList   = flag.String("known", "", "Comma-separated known contact identifiers")
	auditMode   = flag.Bool("audit", false, "Run an audit comparison instead of a single extraction")
	tableAPath  = flag.String("table-a", "", "Baseline pattern table file (audit mode; default: built-in)")
	tableBPath  = flag.String("table-b", "", "Candidate pattern table file (audit mode)")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("extraction-pipeline version %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	table, err := loadTable(cfg.PatternTablePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load pattern table")
	}
	logger.WithField("table_version", table.Version).Info("Pattern table loaded")

	ctx := context.Background()

	if *auditMode {
		if err := runAudit(ctx, cfg, table, logger); err != nil {
			logger.WithError(err).Fatal("Audit comparison failed")
		}
		return
	}

	if err := runExtraction(ctx, cfg, table, logger); err != nil {
		logger.WithError(err).Fatal("Extraction failed")
	}
}

// runExtraction decodes one raw message, cleans it, classifies it, and
// prints the result as JSON
func runExtraction(ctx context.Context, cfg *config.Config, table *patterns.Table, logger *logrus.Logger) error {
	raw, err := readInput(*inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	msg := ingest.NewDecoder(logger).Decode(raw)

	pipeline := extract.NewPipeline(table, logger,
		extract.WithStageBudget(time.Duration(cfg.StageBudgetMS)*time.Millisecond))
	content := pipeline.Extract(ctx, msg)

	known := types.NewKnownIdentifierSet()
	if *knownList != "" {
		for _, id := range strings.Split(*knownList, ",") {
			known.Add(id)
		}
	}
	decision := triage.NewClassifier(table, logger).Classify(content, msg, known, *owner)

	return printJSON(struct {
		Content  types.CleanedContent `json:"content"`
		Decision types.TriageDecision `json:"decision"`
	}{content, decision})
}

// runAudit replays the stored corpus under two table versions and prints
// the comparison report
func runAudit(ctx context.Context, cfg *config.Config, baseline *patterns.Table, logger *logrus.Logger) error {
	if *tableBPath == "" {
		return fmt.Errorf("audit mode requires -table-b")
	}
	tableA := baseline
	if *tableAPath != "" {
		var err error
		if tableA, err = patterns.LoadFile(*tableAPath); err != nil {
			return err
		}
	}
	tableB, err := patterns.LoadFile(*tableBPath)
	if err != nil {
		return err
	}

	db, err := audit.Open(cfg.AuditDBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	store := audit.NewStore(db, logger)
	corpus, err := store.ListMessages()
	if err != nil {
		return err
	}
	if len(corpus) == 0 {
		return fmt.Errorf("audit corpus is empty")
	}

	report := audit.NewComparator(logger, cfg.AuditSampleLimit).Compare(ctx, corpus, tableA, tableB)
	if err := store.SaveReport(report); err != nil {
		return err
	}
	return printJSON(report)
}

func loadTable(path string) (*patterns.Table, error) {
	if path == "" {
		return patterns.Default(), nil
	}
	return patterns.LoadFile(path)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
