package main

import (
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"socrates/repositories"
)

// Config for the read-only journal inspector.
type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/journal"`
	// VIEWER_SESSION narrows the listing to one session key; empty walks everything
	Session string `envconfig:"VIEWER_SESSION"`
	Limit   int    `envconfig:"VIEWER_LIMIT" default:"100"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while the bot process holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 3. Dump the relay journal
	journal := repositories.NewRelayJournal(db, logs.GetLoggerFromString("WARN"))
	records, err := journal.List(config.Session, config.Limit)
	if err != nil {
		log.Fatalf("Failed to read journal: %v", err)
	}

	color.Cyan.Printf("Relay journal — %d record(s)\n", len(records))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Session", "From", "To", "Lang", "Content"})
	for _, rec := range records {
		table.Append([]string{
			time.Unix(0, rec.At).UTC().Format(time.RFC3339),
			rec.SessionID,
			rec.From,
			rec.To,
			rec.Lang,
			rec.Content,
		})
	}
	table.Render()
}
