// Command summarize runs the sales report pipeline on a local spreadsheet
// and prints the dashboard figures or writes one of the export formats.
//
//	summarize -in vendas.xlsx
//	summarize -in vendas.csv -format csv -out resumo.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/services"
	"salespulse/pkg/contracts"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK     = 0
	exitUsage  = 2
	exitSchema = 3
	exitParse  = 4
	exitOther  = 1
)

const formatText = "text"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "spreadsheet to summarize (.xlsx or .csv)")
	format := fs.String("format", formatText, "output format: text, "+strings.Join(api.ExportFormats, ", "))
	outPath := fs.String("out", "", "output file (defaults to stdout)")
	logLevel := fs.String("log-level", "", "log level override (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "print version and exit")
	showProgress := fs.Bool("progress", false, "show a read progress bar on stderr")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}
	if *inPath == "" {
		fmt.Fprintln(stderr, "summarize: -in is required")
		fs.Usage()
		return exitUsage
	}
	*format = strings.ToLower(*format)
	if *format != formatText && !isExportFormat(*format) {
		fmt.Fprintf(stderr, "summarize: unknown format %q\n", *format)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "summarize: %v, using defaults\n", err)
		cfg = config.Default()
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger := infrastructure.NewLogger(cfg.Logging, stderr).With(slog.String("component", "summarize"))

	in, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintf(stderr, "summarize: %v\n", err)
		return exitOther
	}
	defer in.Close()

	var src io.Reader = in
	if *showProgress {
		bar := newReadBar(in, filepath.Base(*inPath), stderr)
		defer bar.Finish()
		src = io.TeeReader(in, bar)
	}

	processor := dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{
		MaxBytes: cfg.Upload.MaxBytes,
		MaxRows:  cfg.Upload.MaxRows,
	})
	svc := services.NewReportService(processor, exporter.NewReportExporter(logger), nil, logger)

	out := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "summarize: %v\n", err)
			return exitOther
		}
		defer f.Close()
		out = f
	}

	name := filepath.Base(*inPath)
	if *format == formatText {
		report, err := svc.Process(ctx, src, name)
		if err != nil {
			return reportError(stderr, err)
		}
		if err := writeText(out, report); err != nil {
			fmt.Fprintf(stderr, "summarize: %v\n", err)
			return exitOther
		}
		return exitOK
	}

	result, err := svc.ProcessAndExport(ctx, src, name, *format)
	if err != nil {
		return reportError(stderr, err)
	}
	if _, err := out.Write(result.Data); err != nil {
		fmt.Fprintf(stderr, "summarize: %v\n", err)
		return exitOther
	}
	return exitOK
}

// newReadBar sizes the bar from the file; an unknown size gives a spinner
func newReadBar(f *os.File, name string, w io.Writer) *progressbar.ProgressBar {
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("reading "+name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

func isExportFormat(format string) bool {
	for _, f := range api.ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// reportError prints err and maps it to an exit code
func reportError(w io.Writer, err error) int {
	if se, ok := apperrors.AsSchemaError(err); ok {
		fmt.Fprintf(w, "summarize: %v\n", se)
		return exitSchema
	}
	if pe, ok := apperrors.AsParseError(err); ok {
		fmt.Fprintf(w, "summarize: %v\n", pe)
		return exitParse
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "summarize: interrupted")
		return exitOther
	}
	fmt.Fprintf(w, "summarize: %v\n", err)
	return exitOther
}

// writeText prints the dashboard figures as aligned plain text
func writeText(w io.Writer, report *domain.Report) error {
	resp := api.NewReportResponse(report)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s: %s (%d rows)\n\n", contracts.ProductName, resp.Source, resp.RowCount)
	fmt.Fprintf(tw, "Clients\t%s\n", resp.Cards.Clients)
	fmt.Fprintf(tw, "Purchase total\t%s\n", resp.Cards.PurchaseTotal)
	fmt.Fprintf(tw, "Monthly total\t%s\n", resp.Cards.MonthlyTotal)
	fmt.Fprintf(tw, "Subscription plan total\t%s\n", resp.Cards.SubscriptionPlanTotal)

	if len(resp.Units) > 0 {
		fmt.Fprintf(tw, "\nUnit\tClients\n")
		for _, u := range resp.Units {
			fmt.Fprintf(tw, "%s\t%d\n", labelOrBlank(u.Unit), u.Clients)
		}
	}

	if len(resp.Salespeople) > 0 {
		fmt.Fprintf(tw, "\nSalesperson\tClients\tPurchase\tMonthly\tPlan\n")
		for _, s := range resp.Salespeople {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", labelOrBlank(s.Name),
				s.Cards.Clients, s.Cards.PurchaseTotal, s.Cards.MonthlyTotal, s.Cards.SubscriptionPlanTotal)
		}
	}

	for _, warning := range resp.Warnings {
		fmt.Fprintf(tw, "\nwarning: %s\n", warning)
	}

	return tw.Flush()
}

func labelOrBlank(s string) string {
	if s == "" {
		return "(blank)"
	}
	return s
}
