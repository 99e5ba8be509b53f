package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theoremoon/articlefeed/internal/article"
	"github.com/theoremoon/articlefeed/internal/client"
	"github.com/theoremoon/articlefeed/internal/config"
	"github.com/theoremoon/articlefeed/internal/feed"
	"github.com/theoremoon/articlefeed/internal/sync"
	"github.com/theoremoon/articlefeed/internal/web"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  %s [serve] [-addr ADDR] [-seed DIR]\n  %s import [-dir DIR] [-api URL] [-dry-run]\n", os.Args[0], os.Args[0])
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && (args[0] == "serve" || args[0] == "import") {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		err = runServe(ctx, cfg, logger, args)
	case "import":
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		err = runImport(ctx, cfg, logger, args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = usage
	addr := fs.String("addr", cfg.Addr, "Address to listen on")
	seedDir := fs.String("seed", cfg.SeedDir, "Directory of seed article files (default: built-in articles)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var seed []article.Article
	var err error
	if *seedDir != "" {
		seed, err = article.LoadSeedDir(*seedDir)
	} else {
		seed, err = article.DefaultSeed()
	}
	if err != nil {
		return err
	}

	manager, err := feed.New(seed, feed.WithIdentity(feed.Identity{
		Name:   cfg.UserName,
		Avatar: cfg.UserAvatar,
	}))
	if err != nil {
		return fmt.Errorf("failed to build feed: %w", err)
	}
	logger.Info("feed loaded", "articles", len(seed), "seed_dir", *seedDir)

	return web.NewServer(*addr, manager, logger).Run(ctx)
}

func runImport(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.Usage = usage
	dir := fs.String("dir", ".", "Directory containing article files")
	apiURL := fs.String("api", cfg.APIURL, "Base URL of the feed server")
	dryRun := fs.Bool("dry-run", false, "Show what would be done without making any changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	docs, err := article.LoadDocumentsFromDir(*dir)
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No articles found")
		return nil
	}

	importer := sync.NewImporter(client.New(*apiURL), logger)

	var result *sync.ImportResult
	if *dryRun {
		result, err = importer.DryRunImportDocuments(ctx, docs, os.Stdout)
	} else {
		result, err = importer.ImportDocuments(ctx, docs)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Published: %d, Skipped: %d, Errors: %d\n", result.Published, result.Skipped, len(result.Errors))

	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			fmt.Printf("Error: %v\n", err)
		}
		return fmt.Errorf("%d articles failed", len(result.Errors))
	}
	return nil
}
