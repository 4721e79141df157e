// Command modelkeepctl inspects and maintains the checkpoint roots of
// round-based training jobs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modelkeep/modelkeep/pkg/modelkeep"
	"github.com/modelkeep/modelkeep/pkg/modelkeep/config"
	"github.com/modelkeep/modelkeep/pkg/modelkeep/store"
)

var (
	flagStore   string
	flagBase    string
	flagDB      string
	flagBucket  string
	flagPrefix  string
	flagRoot    string
	flagConfig  string
	flagVerbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "modelkeepctl",
		Short: "Inspect and maintain training checkpoint roots",
		Long: `modelkeepctl works with the checkpoint entries a training job keeps
under its checkpoint root: list them, export the newest one, prune
stale ones, and preview saving schedules.

The root lives in a durable store selected with --store. Entries are
named <version>.model where version is twice the round the entry
records.`,
		Example: `  modelkeepctl list --base /data --root ckpt
  modelkeepctl latest --store sqlite --db ckpt.db --output model.bin
  modelkeepctl prune --round 42 --base /data
  modelkeepctl schedule --frequency 5 --rounds 17 --base /data`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagStore, "store", "fs", "store backend: fs, sqlite, bolt, s3")
	root.PersistentFlags().StringVar(&flagBase, "base", ".", "base directory for the fs store")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "database file for the sqlite and bolt stores")
	root.PersistentFlags().StringVar(&flagBucket, "bucket", "", "bucket for the s3 store")
	root.PersistentFlags().StringVar(&flagPrefix, "prefix", "", "key prefix for the s3 store")
	root.PersistentFlags().StringVar(&flagRoot, "root", "ckpt", "checkpoint root inside the store")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "job config file; its checkpoint_path overrides --root")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log checkpoint operations to stderr")

	root.AddCommand(newListCmd(), newLatestCmd(), newPruneCmd(), newScheduleCmd())
	return root
}

// session holds the open store and the manager the subcommands use.
type session struct {
	mgr *modelkeep.Manager[[]byte]
	st  store.Store
}

func (s *session) Close() error {
	return s.st.Close()
}

// openSession builds the store and manager selected by the flags.
func openSession(ctx context.Context) (*session, error) {
	root := flagRoot
	if flagConfig != "" {
		cfg, err := config.FromFile(flagConfig)
		if err != nil {
			return nil, err
		}
		settings, err := modelkeep.SettingsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		if settings.Path != "" {
			root = settings.Path
		}
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	var opts []modelkeep.Option
	if flagVerbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, modelkeep.WithLogger(logger))
	}

	return &session{
		mgr: modelkeep.New[[]byte](st, root, modelkeep.RawCodec{}, opts...),
		st:  st,
	}, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	switch flagStore {
	case "fs":
		return store.NewFSStore(flagBase)
	case "sqlite":
		if flagDB == "" {
			return nil, fmt.Errorf("--db is required for the sqlite store")
		}
		return store.NewSQLiteStore(flagDB)
	case "bolt":
		if flagDB == "" {
			return nil, fmt.Errorf("--db is required for the bolt store")
		}
		return store.NewBoltStore(flagDB)
	case "s3":
		if flagBucket == "" {
			return nil, fmt.Errorf("--bucket is required for the s3 store")
		}
		return store.NewS3StoreFromConfig(ctx, flagBucket, flagPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", flagStore)
	}
}
