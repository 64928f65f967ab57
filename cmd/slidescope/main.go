package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"

	"github.com/gnemet/slidescope/internal/ai"
	"github.com/gnemet/slidescope/internal/auth"
	"github.com/gnemet/slidescope/internal/config"
	"github.com/gnemet/slidescope/internal/database"
	"github.com/gnemet/slidescope/internal/normalize"
	"github.com/gnemet/slidescope/internal/probe"
	"github.com/gnemet/slidescope/internal/report"
	"github.com/gnemet/slidescope/internal/resolver"
	"github.com/gnemet/slidescope/internal/watch"
)

type app struct {
	prober *probe.Prober
	sink   report.Sink
	db     *sql.DB
	ai     *ai.Client
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Google Slides URL or presentation ID to check")
	extract := flag.Bool("extract", false, "extract full content after a successful access check")
	format := flag.String("format", "", "report format: json, md or html (overrides config)")
	watchMode := flag.Bool("watch", false, "watch the inbox directory for identifier lists")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *format != "" {
		cfg.Report.Format = *format
	}

	ctx := context.Background()

	provider := &auth.Provider{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
	}
	cred, err := provider.GetCredential(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrMissingClientSecret) {
			printCredentialsHelp(cfg.Google.CredentialsFile)
		}
		log.Fatal().Err(err).Msg("authentication failed")
	}

	svc, err := slides.NewService(ctx, option.WithHTTPClient(cred.HTTPClient()))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build Slides service")
	}

	sink, err := report.NewSink(cfg.Report.Format, cfg.Storage.Output)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid report format")
	}

	a := &app{
		prober: probe.New(svc, cfg.Probe.MaxAttempts, cfg.Probe.BaseDelay),
		sink:   sink,
	}

	if cfg.Database.Enabled() {
		db, err := database.NewConnection(cfg.Database.GetConnectStr())
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		if err := database.EnsureSchema(db); err != nil {
			log.Fatal().Err(err).Msg("database schema setup failed")
		}
		a.db = db
	}

	if cfg.AI.Enabled() {
		client, err := ai.NewClient(ctx, cfg.AI.Key, cfg.AI.Model)
		if err != nil {
			log.Warn().Err(err).Msg("AI summarization disabled")
		} else {
			defer client.Close()
			a.ai = client
		}
	}

	switch {
	case *watchMode:
		w := &watch.Watcher{
			InboxDir:     cfg.Storage.Inbox,
			ProcessedDir: cfg.Storage.Processed,
			Log:          log.Logger,
			Process: func(ctx context.Context, raw string) error {
				doc, err := a.check(ctx, raw)
				if err != nil {
					return err
				}
				return a.extract(ctx, doc)
			},
		}
		if err := w.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("watch mode failed")
		}
	case *input != "":
		doc, err := a.check(ctx, *input)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if *extract {
			if err := a.extract(ctx, doc); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	default:
		a.interactive(ctx)
	}
}

// check runs one resolve -> probe -> normalize cycle, prints the access
// summary and returns the normalized document on success.
func (a *app) check(ctx context.Context, raw string) (*normalize.Document, error) {
	id, err := resolver.Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL or ID format: expected a docs.google.com/presentation/d/<ID> URL or a bare presentation ID")
	}

	fmt.Printf("Checking access to presentation: %s\n", id)
	out := a.prober.Probe(ctx, id)
	if !out.Granted() {
		return nil, errors.New(out.Message())
	}

	doc := normalize.Normalize(out.Presentation)
	summary := normalize.Summarize(doc)

	fmt.Printf("%s\n", out.Message())
	fmt.Printf("  Title:  %s\n", displayTitle(doc.Title))
	fmt.Printf("  Slides: %d\n", summary.SlideCount)
	if preview := normalize.Preview(doc, 100); preview != "" {
		fmt.Printf("  First slide text: %s\n", preview)
	}
	fmt.Printf("  Images: %d, slides with notes: %d\n", summary.Images, summary.SlidesWithNotes)

	return doc, nil
}

// extract hands the normalized document to the configured sinks.
func (a *app) extract(ctx context.Context, doc *normalize.Document) error {
	summary := normalize.Summarize(doc)
	path, err := a.sink.Write(doc)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Full content saved to: %s\n", path)

	rowID := 0
	if a.db != nil {
		id, err := database.SaveDocument(a.db, doc)
		if err != nil {
			log.Warn().Err(err).Msg("failed to persist document")
		} else {
			rowID = id
		}
	}

	if a.ai != nil {
		text, err := a.ai.SummarizeDeck(ctx, normalize.DeckText(doc))
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("deck summarization failed")
		case text != "":
			fmt.Printf("Deck summary: %s\n", text)
			if rowID != 0 {
				if err := database.UpdateSummary(a.db, rowID, text); err != nil {
					log.Warn().Err(err).Msg("failed to store deck summary")
				}
			}
		}
	}

	fmt.Printf("Extraction summary: %d slides, %d text blocks, %d images, %d slides with notes\n",
		summary.SlideCount, summary.TextBlocks, summary.Images, summary.SlidesWithNotes)
	return nil
}

func (a *app) interactive(ctx context.Context) {
	fmt.Println("slidescope - Google Slides access checker")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nEnter Google Slides URL or presentation ID (or 'quit' to exit): ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			return
		case "":
			continue
		}

		doc, err := a.check(ctx, input)
		if err != nil {
			fmt.Println(err)
			continue
		}

		fmt.Print("Extract full content? (y/n): ")
		if !scanner.Scan() {
			return
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer == "y" || answer == "yes" {
			if err := a.extract(ctx, doc); err != nil {
				fmt.Println(err)
			}
		}
	}
}

func displayTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}

func printCredentialsHelp(path string) {
	fmt.Printf("File %q not found. To create it:\n", path)
	fmt.Println("1. Go to https://console.cloud.google.com and select or create a project")
	fmt.Println("2. Enable the Google Slides API")
	fmt.Println("3. Credentials -> Create Credentials -> OAuth client ID -> Desktop application")
	fmt.Println("4. Download the JSON file and save it as", path)
}
