package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"GophVault/internal/config"
	"GophVault/internal/repo"
	"GophVault/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// admin хранит общие для команд флаги.
type admin struct {
	dsn string
}

func newRootCmd() *cobra.Command {
	a := &admin{}
	root := &cobra.Command{
		Use:   "vaultadmin",
		Short: "GophVault administration: schema migration, platform seeding, stats.",
		Long: `vaultadmin работает напрямую с базой GophVault.

DSN берётся из --dsn, иначе из DATABASE_URI (.env поддерживается).
postgres://... или host=... — PostgreSQL, иначе путь к файлу SQLite.

Usage:
  vaultadmin migrate
  vaultadmin seed [name...]
  vaultadmin stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "database DSN (default: $DATABASE_URI)")

	root.AddCommand(a.migrateCmd(), a.seedCmd(), a.statsCmd())
	return root
}

func (a *admin) open() (*gorm.DB, error) {
	dsn := a.dsn
	if dsn == "" {
		dsn = config.FromEnv().DatabaseDSN
	}
	db, err := repo.InitDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (a *admin) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// InitDB уже прогоняет AutoMigrate
			if _, err := a.open(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓")+" Schema is up to date")
			return nil
		},
	}
}

func (a *admin) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [name...]",
		Short: "Create global platforms visible to every user",
		Long: `Creates APPROVED platforms without an owner. Existing names are skipped.
Without arguments seeds the default set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := uniqueNames(args)
			if len(names) == 0 {
				names = service.DefaultPlatforms
			}
			db, err := a.open()
			if err != nil {
				return err
			}
			platforms := service.NewPlatformService(repo.NewStore(db), zap.NewNop().Sugar())
			n, err := platforms.SeedGlobal(cmd.Context(), names)
			if err != nil {
				return fmt.Errorf("failed to seed platforms: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Seeded %s new platform(s), %s already present\n",
				color.GreenString("✓"), color.CyanString("%d", n), color.YellowString("%d", len(names)-n))
			return nil
		},
	}
}

// uniqueNames убирает пустые и повторяющиеся имена, сохраняя порядок.
func uniqueNames(args []string) []string {
	seen := make(map[string]bool, len(args))
	names := make([]string, 0, len(args))
	for _, arg := range args {
		name := strings.TrimSpace(arg)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (a *admin) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record counts per table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			return printStats(cmd.Context(), cmd.OutOrStdout(), repo.NewStore(db))
		},
	}
}

func printStats(ctx context.Context, out io.Writer, st *repo.Store) error {
	fmt.Fprintf(out, "  %-12s %s\n", "driver:", st.DB().Dialector.Name())
	rows := []struct {
		name  string
		count func(context.Context, ...repo.Scope) (int64, error)
	}{
		{"users", st.Users().Count},
		{"platforms", st.Platforms().Count},
		{"containers", st.Containers().Count},
		{"tags", st.Tags().Count},
		{"secrets", st.Secrets().Count},
		{"credentials", st.Credentials().Count},
		{"metadata", st.Metadata().Count},
		{"history", st.History().Count},
		{"envelopes", st.Envelopes().Count},
	}
	for _, r := range rows {
		n, err := r.count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", r.name, err)
		}
		fmt.Fprintf(out, "  %-12s %s\n", r.name+":", color.CyanString("%d", n))
	}
	return nil
}
