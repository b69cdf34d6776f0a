package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/decoderd/decoderd/internal/database"
	"github.com/decoderd/decoderd/internal/models"
	"github.com/decoderd/decoderd/internal/repository"
	"github.com/decoderd/decoderd/pkg/duration"
)

var (
	historyMime  string
	historyLimit int
)

// historyCmd groups the selection history commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Selection history commands",
	Long:  `Commands for inspecting and pruning the recorded selection history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent selection records",
	RunE:  runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune <older-than>",
	Short: "Delete selection records older than the given age",
	Long: `Delete selection records older than the given age.

The age is either a duration or a relative time expression:

  decoderd history prune 30d
  decoderd history prune "2 weeks ago"`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryPrune,
}

func init() {
	historyListCmd.Flags().StringVar(&historyMime, "mime", "", "filter by MIME type")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum records to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// newHistoryRepository opens the configured database for one-shot history
// commands.
func newHistoryRepository() (repository.SelectionRepository, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.Database, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return repository.NewSelectionRepository(db.DB), db.Close, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := newHistoryRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := context.Background()

	var records []*models.SelectionRecord
	if historyMime != "" {
		records, err = repo.GetByMimeType(ctx, historyMime, historyLimit)
	} else {
		records, err = repo.GetRecent(ctx, historyLimit)
	}
	if err != nil {
		return fmt.Errorf("listing selection history: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting selection history: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMIME\tDECODER\tHARDWARE\tAGE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			r.ID, r.MimeType, r.Decoder, r.Hardware, duration.FormatRelative(r.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("%d of %d records\n", len(records), total)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := newHistoryRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	cutoff, err := parseAge(args[0])
	if err != nil {
		return fmt.Errorf("invalid age %q: %w", args[0], err)
	}

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		return fmt.Errorf("pruning selection history: %w", err)
	}

	fmt.Printf("deleted %d records\n", deleted)
	return nil
}

// parseAge turns a duration ("30d") or relative time expression
// ("2 weeks ago") into an absolute cutoff time.
func parseAge(s string) (time.Time, error) {
	if d, err := duration.Parse(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return duration.ParseRelative(s)
}
