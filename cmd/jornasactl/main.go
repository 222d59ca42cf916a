package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/config"
	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/platform/logger"
	"github.com/jornabot/jornasa-go/internal/service"
	"github.com/jornabot/jornasa-go/internal/templatemeta"
	"github.com/jornabot/jornasa-go/internal/worker"
)

var (
	apiFlag   string
	tokenFlag string
	userFlag  string
	localFlag bool

	rootCmd = &cobra.Command{
		Use:   "jornasactl",
		Short: "CLI for the Jornasa journalism assistant",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "", "worker API base URL (overrides JORNASA_WORKER_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "bearer token for worker calls")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id (defaults to the local-user partition)")
	rootCmd.PersistentFlags().BoolVar(&localFlag, "local", false, "force the local store backend for every entity family")

	rootCmd.AddCommand(newPautasCmd())
	rootCmd.AddCommand(newFontesCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newNotificacoesCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newVerificarCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app wires the stores, the worker client and the config for one invocation.
type app struct {
	cfg   *config.Config
	store *localstore.Store
	meta  *templatemeta.Store
	api   *worker.Client
}

func newApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if apiFlag != "" {
		cfg.WorkerBaseURL = apiFlag
	}
	if tokenFlag != "" {
		cfg.APIToken = tokenFlag
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}
	if localFlag {
		cfg.PautasBackend = string(service.BackendLocal)
		cfg.FontesBackend = string(service.BackendLocal)
		cfg.TemplatesBackend = string(service.BackendLocal)
		cfg.NotificacoesBackend = string(service.BackendLocal)
		cfg.ChatBackend = string(service.BackendLocal)
	}

	dbPath := cfg.DataDir
	if dbPath == "" {
		dbPath, err = localstore.DBPath()
		if err != nil {
			return nil, err
		}
	} else {
		dbPath = filepath.Join(dbPath, "jornasa.db")
	}
	kv, err := localstore.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	log := logger.NewConsole("jornasactl")
	store := localstore.New(kv,
		localstore.WithLogger(log),
		localstore.WithDegradedHook(func(err error) {
			fmt.Fprintln(os.Stderr, "aviso: falha ao gravar no armazenamento local:", err)
		}),
	)
	meta := templatemeta.New(kv, templatemeta.WithLogger(log))

	api := worker.New(cfg.WorkerBaseURL,
		worker.WithToken(cfg.APIToken),
		worker.WithDebugLogging(cfg.Debug),
	)

	return &app{cfg: cfg, store: store, meta: meta, api: api}, nil
}

func (a *app) backend(name string) service.Backend {
	b, err := service.ParseBackend(name)
	if err != nil {
		// config.New already validated; keep a safe default regardless
		return service.BackendLocal
	}
	return b
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
