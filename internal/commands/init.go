package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jantonca/easytax-au-sub002/internal/config"
	"github.com/jantonca/easytax-au-sub002/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var abn string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, abn, noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&abn, "abn", "", "Australian Business Number")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")

	return cmd
}

func runInit(dir, name, abn string, noGit bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	cfg := config.Default(name, abn)
	if noGit {
		cfg.Git.AutoCommit = false
	}
	if err := config.Save(filepath.Join(dir, "easytax.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if !noGit {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.CommitAll(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Printf("Initialized ledger at %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Printf("Initialized ledger at %s\n", dir)
	return nil
}
