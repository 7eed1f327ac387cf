// Command catalog-ingest imports supplier product feeds into the catalog.
// Feeds are gzip-compressed JSONL files, one product per line. Suppliers
// routinely repeat each other's listings, so every accepted product name is
// tracked in a bloom filter and likely repeats are skipped; the filter's
// false positives only ever drop a duplicate-looking listing, never corrupt
// the catalog.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/embershop/storefront/internal/repository"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
)

// feedProduct is one line of a supplier feed.
type feedProduct struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "feeds", "directory containing *.jsonl.gz supplier feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(feedDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feeds")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", feedDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	ing := &ingester{
		pool: pool,
		seen: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}

	// One worker per feed; the shared filter serializes dedup decisions,
	// inserts run on the pool's own connections.
	g, ctx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		g.Go(ing.ingestFeed(ctx, feed))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("ingest summary",
		slog.Uint64("inserted", ing.inserted),
		slog.Uint64("skipped", ing.skipped),
	)
	return nil
}

type ingester struct {
	pool *pgxpool.Pool

	mu       sync.Mutex
	seen     *bloom.BloomFilter
	inserted uint64
	skipped  uint64
}

// accept reports whether the product name is new, recording it when it is.
func (ing *ingester) accept(name string) bool {
	ing.mu.Lock()
	defer ing.mu.Unlock()

	if ing.seen.TestString(name) {
		ing.skipped++
		return false
	}
	ing.seen.AddString(name)
	ing.inserted++
	return true
}

func (ing *ingester) ingestFeed(ctx context.Context, path string) func() error {
	return func() error {
		feed := filepath.Base(path)
		slog.Info("ingesting feed", slog.String("feed", feed))

		var count uint64
		err := streamGzLines(ctx, path, func(line string) error {
			var p feedProduct
			if err := json.Unmarshal([]byte(line), &p); err != nil {
				return errors.Wrapf(err, "parse line %q", line)
			}
			if p.Name == "" || p.Category == "" || !p.Price.IsPositive() {
				return errors.Errorf("invalid product in feed %s: %q", feed, line)
			}

			if !ing.accept(p.Name) {
				return nil
			}

			_, err := ing.pool.Exec(ctx,
				`INSERT INTO products (name, price, category) VALUES ($1, $2, $3)`,
				p.Name, p.Price, p.Category,
			)
			if err != nil {
				return errors.Wrapf(err, "insert product %q", p.Name)
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("ingest progress", slog.String("feed", feed), slog.Uint64("inserted", count))
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "ingest feed %s", feed)
		}

		slog.Info("feed complete", slog.String("feed", feed), slog.Uint64("inserted", count))
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each
// non-empty line.
func streamGzLines(ctx context.Context, path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
