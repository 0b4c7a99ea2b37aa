package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jantonca/easytax-au-sub002/internal/config"
	"github.com/jantonca/easytax-au-sub002/internal/gitops"
	"github.com/jantonca/easytax-au-sub002/internal/importer"
	"github.com/jantonca/easytax-au-sub002/internal/ledger"
	"github.com/jantonca/easytax-au-sub002/internal/model"
	"github.com/jantonca/easytax-au-sub002/internal/money"
	"github.com/jantonca/easytax-au-sub002/internal/runlog"
)

type importFlags struct {
	dir        string
	kind       string
	template   string
	mapPairs   []string
	dateFormat string
	threshold  float64
	keepDupes  bool
	dryRun     bool
	markPaid   bool
	asJSON     bool
}

func newImportCommand() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank or invoice CSV export into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.dir, "dir", "C", ".", "ledger root directory")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "record kind: expense or income (default: detect from headers)")
	cmd.Flags().StringVar(&flags.template, "template", "", "built-in column template: "+strings.Join(importer.TemplateNames(), ", "))
	cmd.Flags().StringArrayVar(&flags.mapPairs, "map", nil, "explicit column mapping as role=Header (repeatable)")
	cmd.Flags().StringVar(&flags.dateFormat, "date-format", "", "Go date layout for --map imports")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", -1, "counterparty match threshold in [0,1] (default: from config)")
	cmd.Flags().BoolVar(&flags.keepDupes, "keep-duplicates", false, "import rows that duplicate existing ledger entries")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "preview the report without writing anything")
	cmd.Flags().BoolVar(&flags.markPaid, "mark-paid", false, "mark all imported income rows as paid")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the report as JSON")

	return cmd
}

func runImport(file string, flags importFlags) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	cfg, err := loadConfig(flags.dir)
	if err != nil {
		return err
	}

	opts := importer.DefaultOptions()
	opts.MatchThreshold = cfg.Import.MatchThreshold
	opts.SkipDuplicates = cfg.Import.SkipDuplicates
	if flags.threshold >= 0 {
		opts.MatchThreshold = flags.threshold
	}
	if flags.keepDupes {
		opts.SkipDuplicates = false
	}
	opts.Kind = model.RecordKind(flags.kind)
	opts.Template = flags.template
	opts.DryRun = flags.dryRun
	opts.MarkAsPaid = flags.markPaid

	if len(flags.mapPairs) > 0 {
		mapping, err := parseMappingFlags(opts.Kind, flags.mapPairs, flags.dateFormat)
		if err != nil {
			return err
		}
		opts.Mapping = mapping
	}

	svc := ledger.NewService(flags.dir)
	imp := importer.New(svc, svc, svc, svc)

	report, err := imp.Run(data, opts)
	if err != nil {
		return err
	}
	slog.Debug("import finished", "run", report.RunID, "rows", report.TotalRows, "elapsed_ms", report.ElapsedMS)

	if err := runlog.Append(flags.dir, runlog.Entry{
		Timestamp:  time.Now(),
		RunID:      report.RunID,
		File:       filepath.Base(file),
		Kind:       string(report.Kind),
		TotalRows:  report.TotalRows,
		Success:    report.SuccessCount,
		Failed:     report.FailedCount,
		Duplicates: report.DuplicateCount,
		DryRun:     report.DryRun,
	}); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}

	if flags.asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Println(string(out))
	} else {
		printReport(report)
	}

	if !report.DryRun && report.SuccessCount > 0 && cfg.Git.AutoCommit && gitops.IsRepo(flags.dir) {
		msg := fmt.Sprintf("import: %s (%d rows)", filepath.Base(file), report.SuccessCount)
		hash, err := gitops.CommitAll(flags.dir, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("committing ledger: %w", err)
		}
		fmt.Printf("Committed %s\n", hash)
	}
	return nil
}

// loadConfig reads easytax.yaml from the ledger root, falling back to
// defaults when the ledger was never initialized.
func loadConfig(dir string) (*config.Config, error) {
	path := filepath.Join(dir, "easytax.yaml")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default("", "")
		cfg.Git.AutoCommit = false
		return cfg, nil
	}
	return config.Load(path)
}

// parseMappingFlags builds an explicit mapping from repeated role=Header
// flags.
func parseMappingFlags(kind model.RecordKind, pairs []string, dateFormat string) (*importer.Mapping, error) {
	valid := map[importer.Role]bool{
		importer.RoleDate: true, importer.RoleCounterparty: true, importer.RoleAmount: true,
		importer.RoleGST: true, importer.RoleSubtotal: true, importer.RoleTotal: true,
		importer.RoleBusinessPct: true, importer.RoleCategory: true,
		importer.RoleDescription: true, importer.RoleInvoice: true,
	}

	mapping := &importer.Mapping{
		Kind:       kind,
		Columns:    make(map[importer.Role]string, len(pairs)),
		DateFormat: dateFormat,
	}
	for _, pair := range pairs {
		role, header, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --map %q: want role=Header", pair)
		}
		r := importer.Role(strings.TrimSpace(role))
		if !valid[r] {
			return nil, fmt.Errorf("unknown mapping role %q", role)
		}
		mapping.Columns[r] = strings.TrimSpace(header)
	}
	return mapping, nil
}

func printReport(report *importer.Report) {
	mode := "imported"
	if report.DryRun {
		mode = "previewed (dry run)"
	}
	fmt.Printf("Run %s: %s %d rows in %dms\n", report.RunID, mode, report.TotalRows, report.ElapsedMS)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Row", "Status", "Counterparty", "Score", "Amount", "GST", "Period", "Note"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, row := range report.Rows {
		status := "ok"
		note := row.Warning
		switch {
		case row.Duplicate:
			status = "dup"
		case !row.Success:
			status = "fail"
			note = row.Error
		}

		score := ""
		if row.MatchScore > 0 {
			score = fmt.Sprintf("%.2f", row.MatchScore)
		}

		table.Append([]string{
			fmt.Sprintf("%d", row.Row),
			status,
			row.Counterparty,
			score,
			money.FormatCents(row.AmountCents),
			money.FormatCents(row.GSTCents),
			row.Period,
			note,
		})
	}
	table.Render()

	fmt.Printf("%d ok, %d failed, %d duplicates", report.SuccessCount, report.FailedCount, report.DuplicateCount)
	if report.WarningCount > 0 {
		fmt.Printf(", %d warnings", report.WarningCount)
	}
	fmt.Printf("; totals %s + %s GST\n", money.FormatCents(report.AmountCents), money.FormatCents(report.GSTCents))
}
