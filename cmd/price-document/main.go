// Command price-document reads a proposal or inspection report and prints
// the products it mentions, the TPI systems they form and the priced
// inspection services.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/application/service"
	"github.com/foundationpro/inspection-billing/internal/config"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/document"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/external/openai"
	"github.com/foundationpro/inspection-billing/pkg/utils"
)

func main() {
	days := flag.Int("days", 0, "production days used for per-day services")
	model := flag.String("model", "gpt-4o", "OpenAI model used for scanned pages")
	prompts := flag.String("prompts", "", "optional prompts YAML for page transcription")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-days N] <file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *days < 0 {
		fmt.Fprintln(os.Stderr, "-days must not be negative")
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.SyncLogger(logger)

	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Warn("Ignoring .env", zap.Error(err))
	}

	transcriber, err := newTranscriber(*model, *prompts, logger)
	if err != nil {
		logger.Error("Failed to set up transcriber", zap.Error(err))
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *days, document.NewReader(transcriber, 0, logger)); err != nil {
		logger.Error("Failed to price document", zap.Error(err))
		os.Exit(1)
	}
}

// newTranscriber returns nil when no API key is available. Scanned pages are
// then skipped.
func newTranscriber(model, promptsPath string, logger *zap.Logger) (port.PageTranscriber, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Debug("OPENAI_API_KEY not set, scanned pages will not be transcribed")
		return nil, nil
	}

	prompts := openai.DefaultPrompts()
	if promptsPath != "" {
		loaded, err := openai.LoadPrompts(promptsPath)
		if err != nil {
			return nil, err
		}
		prompts = loaded
	}
	return openai.NewTranscriber(apiKey, model, prompts, logger), nil
}

func run(path string, days int, reader port.DocumentReader) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text, err := reader.ExtractText(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	engine := pricing.Default()
	pricingService := service.NewPricingService(engine)

	products := pricingService.MatchText(text)
	if len(products) == 0 {
		fmt.Println("No catalog products found.")
		return nil
	}

	fmt.Println("Products:")
	for _, id := range products {
		if p, ok := engine.Catalog().Product(id); ok {
			fmt.Printf("  %s (%s)\n", p.Name, id)
		} else {
			fmt.Printf("  %s\n", id)
		}
	}

	quote := pricingService.Quote(products, days)

	fmt.Println("\nSystems:")
	if len(quote.Systems) == 0 {
		fmt.Println("  none")
	}
	for _, sys := range quote.Systems {
		state := "partial"
		if sys.IsComplete {
			state = "complete"
		}
		fmt.Printf("  %s: %s [%s]\n", sys.System, state, strings.Join(sys.Matched, ", "))
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tCATEGORY\tDAYS\tPRICE")
	for _, svc := range quote.Services {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%d\n", svc.ServiceName, svc.Category, svc.ProductionDays, svc.Price)
	}
	fmt.Fprintf(w, "TOTAL\t\t\t$%d\n", quote.Total)
	return w.Flush()
}
