package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rigsmith/internal/catalog"
	"rigsmith/internal/core"
	"rigsmith/pkg/domain"
)

func (a *app) ingestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Load the datasets from blob storage into the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			bs, err := a.openBlob(ctx)
			if err != nil {
				return err
			}
			snap, err := catalog.NewLoader(bs, a.logger.Named("catalog")).LoadSnapshot(ctx, a.cfg.Catalog.Prefix)
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Save(ctx, snap); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			total := 0
			for _, c := range domain.Categories() {
				total += len(snap.Parts[c])
			}
			a.logger.Info("catalog ingested", zap.String("store", string(a.cfg.Store.Driver)), zap.Int("parts", total))
			fmt.Fprintf(a.stdout, "ingested %d parts into %s store\n", total, orDefault(string(a.cfg.Store.Driver), "sqlite"))
			return nil
		},
	}
}

func (a *app) searchCommand() *cobra.Command {
	var (
		buildFile string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "search <category> [keyword]",
		Short: "List parts compatible with an optional partial build",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			category, err := domain.ParseCategory(args[0])
			if err != nil {
				return err
			}
			keyword := ""
			if len(args) == 2 {
				keyword = args[1]
			}
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			build := domain.NewBuildList()
			if buildFile != "" {
				selection, err := readBuildFile(buildFile)
				if err != nil {
					return err
				}
				if build, err = svc.ResolveBuild(selection); err != nil {
					return err
				}
			}
			parts, cs, err := svc.SearchForBuild(ctx, build, category, keyword)
			if err != nil {
				return err
			}
			if !cs.IsEmpty() {
				fmt.Fprintf(a.stdout, "constraints: %s\n", cs)
			}
			fmt.Fprintf(a.stdout, "%d compatible %s parts\n", len(parts), category)
			if limit > 0 && len(parts) > limit {
				parts = parts[:limit]
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, p := range parts {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, formatPrice(p.Price), describe(category, p))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&buildFile, "build", "b", "", "YAML build file whose parts constrain the search")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results to print (0 prints all)")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	var prices bool
	cmd := &cobra.Command{
		Use:   "check <build file>",
		Short: "Check a build file for compatibility problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			selection, err := readBuildFile(args[0])
			if err != nil {
				return err
			}
			var opts []core.ServiceOption
			if prices {
				oracle, err := a.priceOracle(ctx)
				if err != nil {
					return err
				}
				opts = append(opts, core.WithPriceOracle(oracle))
			}
			svc, err := a.service(ctx, opts...)
			if err != nil {
				return err
			}
			build, err := svc.ResolveBuild(selection)
			if err != nil {
				return err
			}
			res, err := svc.CheckBuild(ctx, build)
			if err != nil {
				return err
			}
			a.printBuild(build)
			if len(res.Violations) == 0 {
				fmt.Fprintln(a.stdout, "no compatibility problems found")
			}
			for _, v := range res.Violations {
				fmt.Fprintf(a.stdout, "[%s] %s\n", v.Severity, v.Message)
			}
			if prices {
				report, err := svc.PriceCheck(ctx, build)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, "live prices:")
				for _, line := range report.Lines {
					if line.Quote == nil {
						fmt.Fprintf(a.stdout, "  %s: unavailable (%s)\n", line.Part, line.Error)
						continue
					}
					fmt.Fprintf(a.stdout, "  %s: %s\n", line.Part, formatPrice(line.Quote.Price))
				}
				fmt.Fprintf(a.stdout, "live total: %s\n", formatPrice(report.Total))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prices, "prices", false, "Quote each part from the configured price sheet")
	return cmd
}

func (a *app) autobuildCommand() *cobra.Command {
	var (
		budget  int64
		purpose string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "autobuild",
		Short: "Allocate a budget across categories and pick a complete build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if budget < a.cfg.AutoBuild.MinBudget {
				return fmt.Errorf("budget %s is below the minimum of %s", formatPrice(float64(budget)), formatPrice(float64(a.cfg.AutoBuild.MinBudget)))
			}
			p, err := domain.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			out, err := svc.RunAutoBuild(ctx, budget, p)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				a.printOutcome(out)
			}
			if out.Failure != nil {
				return &ExitCodeError{Code: ExitAllocationFailure, Err: errors.New(out.Failure.Reason)}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().StringVar(&purpose, "purpose", string(domain.PurposeGaming), "Build purpose: gaming or workstation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dataset counts and enrichment results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			cat := svc.Catalog()
			counts := cat.Counts()
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tPARTS")
			for _, c := range domain.Categories() {
				fmt.Fprintf(tw, "%s\t%d\n", c, counts[c])
			}
			for _, st := range cat.EnrichStats() {
				fmt.Fprintf(tw, "enriched %s\t%d / %d\n", st.Category, st.Matched, st.Total)
			}
			return tw.Flush()
		},
	}
}

func (a *app) printBuild(build domain.BuildList) {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, sp := range build.Parts() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sp.Category, sp.Part.Name, formatPrice(sp.Part.Price))
	}
	_ = tw.Flush()
	fmt.Fprintf(a.stdout, "total: %s\n", formatPrice(build.TotalPrice()))
}

func (a *app) printOutcome(out core.Outcome) {
	plan := out.Plan
	fmt.Fprintf(a.stdout, "run %s (%s, %s)\n", out.RunID, out.Purpose, formatPrice(plan.Total))
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "cpu\t%s\n", formatPrice(plan.CPU))
	fmt.Fprintf(tw, "motherboard\t%s\n", formatPrice(plan.Motherboard))
	fmt.Fprintf(tw, "ram\t%s\n", formatPrice(plan.RAM))
	fmt.Fprintf(tw, "gpu\t%s (+%s rollover)\n", formatPrice(plan.GPU), formatPrice(plan.Rollover))
	fmt.Fprintf(tw, "psu\t%s\n", formatPrice(plan.PSU))
	fmt.Fprintf(tw, "case\t%s\n", formatPrice(plan.Case))
	_ = tw.Flush()
	if out.Failure != nil {
		fmt.Fprintf(a.stdout, "auto-build failed at %s: %s\n", out.Failure.Category, out.Failure.Reason)
		return
	}
	a.printBuild(*out.Build)
	for _, w := range out.Warnings {
		fmt.Fprintf(a.stdout, "warning: %s\n", w)
	}
}

func formatPrice(p float64) string {
	if p <= 0 {
		return "n/a"
	}
	return "Rp " + humanize.Comma(int64(p+0.5))
}

func describe(category domain.Category, p domain.Part) string {
	var attrs []string
	switch category {
	case domain.CategoryCPU, domain.CategoryMotherboard:
		if p.HasSocket() {
			attrs = append(attrs, p.Socket)
		}
		if p.HasMemorySupport() {
			attrs = append(attrs, p.MemorySupportValue())
		}
	case domain.CategoryRAM:
		if p.Speed != nil {
			attrs = append(attrs, fmt.Sprintf("%s-%d", p.RAMType(), p.Speed.FrequencyMHz))
		}
	case domain.CategoryPSU:
		if p.HasWattage() {
			attrs = append(attrs, fmt.Sprintf("%dW", p.WattageValue()))
		}
	case domain.CategoryGPU:
		if p.MemorySizeGB > 0 {
			attrs = append(attrs, fmt.Sprintf("%d GB", p.MemorySizeGB))
		}
	}
	if p.TDP > 0 {
		attrs = append(attrs, fmt.Sprintf("%dW TDP", p.TDP))
	}
	return strings.Join(attrs, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
