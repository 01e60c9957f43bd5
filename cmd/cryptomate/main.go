package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/common"
	"github.com/meshivamsingh/cryptoMate/internal/config"
	"github.com/meshivamsingh/cryptoMate/internal/facade"
	"github.com/meshivamsingh/cryptoMate/internal/interfaces"
	"github.com/meshivamsingh/cryptoMate/internal/marketdata"
	"github.com/meshivamsingh/cryptoMate/internal/portfolio"
	"github.com/meshivamsingh/cryptoMate/internal/storage"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

// app bundles the collaborators shared by every subcommand. The storage and
// facade are opened lazily so commands like version never touch badger.
type app struct {
	cfg    *config.Config
	logger *common.Logger

	manager interfaces.StorageManager
	store   *portfolio.Store
	facade  *facade.Facade
}

// open builds the storage layer, portfolio store, market clients and facade.
func (a *app) open(ctx context.Context) error {
	if a.facade != nil {
		return nil
	}

	manager, err := storage.NewStorageManager(a.logger, a.cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	notifier := portfolio.NotifierFunc(func(message string) {
		fmt.Println(message)
	})
	store := portfolio.NewStore(ctx, manager.KeyValueStorage(), notifier, a.logger)

	client := marketdata.NewClient(&a.cfg.Clients.CoinGecko, a.logger)
	news := marketdata.NewNewsService(
		marketdata.NewCryptoPanicProvider(&a.cfg.Clients.CryptoPanic),
		marketdata.NewCryptoCompareProvider(&a.cfg.Clients.CryptoCompare),
		a.logger,
	)

	a.manager = manager
	a.store = store
	a.facade = facade.New(client, news, store, a.logger,
		a.cfg.Market.TopCoinsLimit, a.cfg.Market.GetStaleTime())
	return nil
}

func (a *app) close() {
	if a.facade != nil {
		a.facade.Close()
	}
	if a.manager != nil {
		a.manager.Close()
	}
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&marketsCmd{}, "market")
	subcommands.Register(&coinCmd{}, "market")
	subcommands.Register(&chartCmd{}, "market")
	subcommands.Register(&globalCmd{}, "market")
	subcommands.Register(&newsCmd{}, "market")

	subcommands.Register(&listCmd{}, "portfolio")
	subcommands.Register(&addCmd{}, "portfolio")
	subcommands.Register(&updateCmd{}, "portfolio")
	subcommands.Register(&removeCmd{}, "portfolio")
	subcommands.Register(&valueCmd{}, "portfolio")

	subcommands.Register(&versionCmd{}, "")

	flag.Parse()

	if *showVersion {
		fmt.Printf("cryptomate version %s\n", config.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified.
	// Binary-relative paths are tried first so the config is found even when
	// the working directory differs from the binary location.
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error: mandatory fields are missing or invalid:")
		fmt.Fprintln(os.Stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, CRYPTOMATE_* environment variables, or CLI flags.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Debug().
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	a := &app{cfg: cfg, logger: logger}
	defer a.close()

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx, a)))
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"cryptomate.toml",
		"config/cryptomate.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "cryptomate.toml"),
		filepath.Join(binDir, "config", "cryptomate.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// setupLogger creates an arbor logger based on config.
func setupLogger(cfg *config.Config) *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// appFrom extracts the shared app from subcommand Execute args and opens it.
func appFrom(ctx context.Context, args []interface{}) (*app, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("application not initialized")
	}
	a, ok := args[0].(*app)
	if !ok {
		return nil, fmt.Errorf("application not initialized")
	}
	if err := a.open(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
