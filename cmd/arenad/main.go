package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/arena/internal/account"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/lobby"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(name string, id int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m         arenad · 5v5 battle server      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", name, id)
}

func printSection(title string) {
	fmt.Printf("  \033[33m── %s ──\033[0m\n", title)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("ARENAD_CONFIG"); p != "" {
		cfgPath = p
	}

	var (
		flagConfig      = flag.String("config", "", "path to server.toml (overrides ARENAD_CONFIG)")
		flagPort        = flag.Int("port", 0, "override the network.bind_address port")
		flagPersistPath = flag.String("persist-path", "", "override the accounts.file_path account store location")
	)
	flag.Parse()
	if *flagConfig != "" {
		cfgPath = *flagConfig
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *flagPort != 0 {
		host, _, err := net.SplitHostPort(cfg.Network.BindAddress)
		if err != nil {
			host = cfg.Network.BindAddress
		}
		cfg.Network.BindAddress = net.JoinHostPort(host, fmt.Sprint(*flagPort))
	}
	if *flagPersistPath != "" {
		cfg.Accounts.FilePath = *flagPersistPath
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	stop := make(chan struct{})

	// Optional match-history recorder (internal/persist's non-goal-respecting,
	// best-effort sink — nil recorder means nothing is ever written).
	var recorder *persist.Recorder
	if cfg.Persist.Enabled {
		printSection("persist")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Persist.DSN, log)
		cancel()
		if err != nil {
			return fmt.Errorf("connect match history db: %w", err)
		}
		defer db.Close()

		migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = persist.RunMigrations(migCtx, db.Pool)
		migCancel()
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		printOK("match history database connected and migrated")

		recorder = persist.NewRecorder(db, log)
		go recorder.Run(stop)
	}

	printSection("accounts")
	accounts := account.NewRegistry(cfg.Accounts.FilePath, cfg.Accounts.BcryptCost, log)
	go accounts.RunPersister(cfg.Accounts.PersistInterval, stop)
	printOK(fmt.Sprintf("account store loaded from %s", cfg.Accounts.FilePath))

	srv, err := server.NewServer(cfg.Network.BindAddress, cfg.Network.RingCapacity, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("start listener: %w", err)
	}
	go srv.AcceptLoop()

	dispatcher := server.NewDispatcher(srv, accounts, cfg.Network.TickRate, log)
	lobbyReg := lobby.NewRegistry(dispatcher, log, cfg.Battle.MaxSeatsPerRoom, cfg.Battle.MatchQueueSize, cfg.Battle.MatchQueueWait)
	dispatcher.AttachLobby(lobbyReg)

	if recorder != nil {
		lobbyReg.SetRecorder(recorder)
	}

	if cfg.Battle.ShopOverridePath != "" {
		printSection("shop override")
		engine := scripting.NewEngine(log)
		defer engine.Close()
		lobbyReg.SetShopItems(engine.LoadShopItems(cfg.Battle.ShopOverridePath))
		printOK(fmt.Sprintf("shop items loaded from %s", cfg.Battle.ShopOverridePath))
	}

	if cfg.Battle.HeroOverridePath != "" {
		printSection("hero override")
		heroes, err := data.LoadHeroTemplates(cfg.Battle.HeroOverridePath)
		if err != nil {
			log.Warn("hero template override load failed, using built-in defaults",
				zap.String("path", cfg.Battle.HeroOverridePath), zap.Error(err))
		} else {
			lobbyReg.SetHeroTemplates(heroes)
			printOK(fmt.Sprintf("hero templates loaded from %s", cfg.Battle.HeroOverridePath))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", srv.Addr().String()))
	printReady(fmt.Sprintf("tick rate %s", cfg.Network.TickRate))
	fmt.Println()

	go func() {
		sig := <-sigCh
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		close(stop)
		if err := accounts.Persist(); err != nil {
			log.Warn("final account persist failed", zap.Error(err))
		}
		srv.Shutdown()
	}()

	dispatcher.Run(stop)
	log.Info("server stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
