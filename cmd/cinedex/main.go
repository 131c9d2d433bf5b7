package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/adapter/source"
	"github.com/mmcdole/cinedex/internal/adapter/source/tmdb"
	"github.com/mmcdole/cinedex/internal/catalog"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/store"
	"github.com/mmcdole/cinedex/internal/tui"
	"github.com/mmcdole/cinedex/internal/tui/components"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var (
		showVersion bool
		setup       bool
		clearCache  bool
		category    string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&setup, "setup", false, "enter a new TMDB API token")
	flag.BoolVar(&clearCache, "clear-cache", false, "remove cached genres and details")
	flag.StringVar(&category, "category", "", "category to open (popular, top_rated, now_playing, release_date, trending)")
	flag.Parse()

	if showVersion {
		fmt.Printf("cinedex %s\n", Version)
		return
	}

	if err := run(setup, clearCache, category); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(setup, clearCache bool, category string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting cinedex", "version", Version)

	if clearCache {
		if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	}

	// Check if configured
	if setup || !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger, cfg.IsConfigured())
	}

	if category == "" {
		category = cfg.UI.DefaultCategory
	}
	startCategory, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}

	// Create catalog source client
	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	// Open metadata cache, falling back to memory if the disk is unusable
	st, err := store.NewMetadataStore(cfg.Cache.Dir, cfg.TMDB.BaseURL)
	if err != nil {
		logger.Warn("failed to open cache, using memory only", "dir", cfg.Cache.Dir, "error", err)
		if st, err = store.NewMetadataStore("", cfg.TMDB.BaseURL); err != nil {
			return fmt.Errorf("failed to create cache: %w", err)
		}
	}
	defer st.Close()

	// Create services
	genreSvc := service.NewGenreService(client, st, cfg.Cache.GenreTTL, logger)
	detailsSvc := service.NewDetailsService(client, st, logger)

	observer := tui.NewChannelObserver(16)
	ctrl := catalog.New(client, startCategory,
		catalog.WithLogger(logger),
		catalog.WithMatcher(catalog.NewMatcher(catalog.MatchMode(cfg.UI.MatchMode))),
		catalog.WithObserver(observer),
	)

	// Create TUI model
	model := tui.NewModel(tui.Deps{
		Catalog:   ctrl,
		States:    observer.States(),
		Genres:    genreSvc,
		Details:   detailsSvc,
		PosterURL: func(path string) string { return tmdb.PosterURL(path, "w500") },
		Logger:    logger,
	})

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "category", startCategory)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow asks for a TMDB token, verifies it and saves it. When a
// config already exists only the token is replaced.
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger, reconfigure bool) error {
	fmt.Println()
	fmt.Println("Welcome to Cinedex!")
	fmt.Println()
	fmt.Println("Cinedex needs a TMDB API Read Access Token.")
	fmt.Println("Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		token, err := readToken()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		cfg.TMDB.Token = token
		if err := verifyWithSpinner(cfg, logger); err != nil {
			fmt.Printf("\n✗ Token check failed: %v\n", err)
			if errors.Is(err, domain.ErrUnauthorized) {
				fmt.Println("Please check the token and try again.")
				fmt.Println()
				continue
			}
			return err
		}
		break
	}

	save := func() error { return adapter.SaveConfig(cfg) }
	if reconfigure {
		save = func() error { return adapter.SaveToken(cfg.TMDB.Token) }
	}
	if err := save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run cinedex again to start browsing.")

	return nil
}

// readToken reads the token without echo when stdin is a terminal
func readToken() (string, error) {
	fmt.Print("Enter your API token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// verifyWithSpinner fetches the genre list to prove the token works
func verifyWithSpinner(cfg *adapter.Config, logger *slog.Logger) error {
	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.FetchGenres(ctx)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking token...", components.Spinner(frame))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Token accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking token...", components.Spinner(frame))

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("token check timed out")
		}
	}
}
