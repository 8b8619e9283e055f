// Package cli wires the tasklist commands onto cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logger"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
)

var version = "v0.1.0"

type rootFlags struct {
	backend  string
	store    string
	dsn      string
	key      string
	debug    bool
	jsonLogs bool
	quiet    bool
}

type app struct {
	flags  rootFlags
	cfg    config.RuntimeConfig
	log    *logrus.Logger
	out    io.Writer
	errOut io.Writer
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitCode(err)
	}
	return ExitSuccess
}

func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: logger.Discard()}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Keep a simple ordered list of tasks",
		Long:          "tasklist keeps an ordered list of free-text tasks in a single storage slot. Run without a subcommand to open the interactive list.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		}),
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userErr(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: sqlite, mysql, file or memory (env TASKLIST_BACKEND)")
	pf.StringVar(&a.flags.store, "store", "", "path of the sqlite or file store (env TASKLIST_STORE_PATH)")
	pf.StringVar(&a.flags.dsn, "dsn", "", "mysql data source name (env TASKLIST_MYSQL_DSN)")
	pf.StringVar(&a.flags.key, "key", "", "storage slot holding the list (env TASKLIST_SLOT_KEY)")
	pf.BoolVar(&a.flags.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&a.flags.jsonLogs, "json-logs", false, "Output logs in JSON format")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Only log errors")

	root.AddCommand(
		newAddCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newExportCommand(a),
		newResetCommand(a),
		newExecCommand(a),
		newTUICommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.log = logger.New(logger.Options{
		Debug: a.flags.debug,
		JSON:  a.flags.jsonLogs,
		Quiet: a.flags.quiet,
		Out:   a.errOut,
	})

	cfg := config.RuntimeConfigFromEnv(config.DefaultRuntimeConfig())
	flags := cmd.Flags()
	if flags.Changed("backend") {
		b := config.Backend(strings.ToLower(strings.TrimSpace(a.flags.backend)))
		if !b.IsValid() {
			return userErr(fmt.Errorf("unknown backend %q", a.flags.backend))
		}
		cfg.Backend = b
	}
	if flags.Changed("store") {
		cfg.StorePath = a.flags.store
	}
	if flags.Changed("dsn") {
		cfg.MySQLDSN = a.flags.dsn
	}
	if flags.Changed("key") {
		if strings.TrimSpace(a.flags.key) == "" {
			return userErr(fmt.Errorf("slot key must not be blank"))
		}
		cfg.SlotKey = a.flags.key
	}
	a.cfg = cfg
	a.log.WithFields(logrus.Fields{
		"backend": cfg.Backend,
		"store":   cfg.StorePath,
		"key":     cfg.SlotKey,
	}).Debug("configuration resolved")
	return nil
}

// session is one opened store plus the manager bound to its slot.
type session struct {
	store   storage.SlotStore
	manager *tasklist.Manager
}

func (s *session) Close() error {
	return s.store.Close()
}

func (a *app) open(ctx context.Context, opts ...tasklist.Option) (*session, error) {
	store, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Backend, err)
	}
	repo, err := tasklist.NewSlotRepository(store, a.cfg.SlotKey)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	opts = append([]tasklist.Option{tasklist.WithLogger(a.log)}, opts...)
	mgr, err := tasklist.NewManager(repo, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{store: store, manager: mgr}, nil
}

func (a *app) closeSession(s *session) {
	if err := s.Close(); err != nil {
		a.log.WithError(err).Warn("close store")
	}
}

func exportDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
