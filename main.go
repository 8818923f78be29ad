// Command trialetl downloads trial records from the registry, parses their
// eligibility criteria and loads them into SQLite.
//
// Build & run:
//
//	go build .
//	./trialetl download --from 2024-01-01
//	./trialetl load
//	./trialetl iec --kind exclusion criteria.txt
//	./trialetl fetch ISRCTN12345678
//	./trialetl show ISRCTN12345678
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/paulgmiller/trialetl/internal/config"
	"github.com/paulgmiller/trialetl/internal/iec"
	"github.com/paulgmiller/trialetl/internal/model"
	"github.com/paulgmiller/trialetl/internal/pipeline"
	"github.com/paulgmiller/trialetl/internal/registry"
	"github.com/paulgmiller/trialetl/internal/store"
)

var (
	configPath string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "trialetl",
	Short: "Clinical trial registry importer",
	Long: `trialetl pulls trial records from the registry XML API, writes one JSON file
per study, and loads studies, identifiers and parsed eligibility criteria into SQLite.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetPrefix("trialetl: ")
		log.SetFlags(log.LstdFlags | log.Lmsgprefix)
		if quiet {
			log.SetOutput(io.Discard)
		}
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "trialetl.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "discard log output")
	rootCmd.AddCommand(newDownloadCmd(), newLoadCmd(), newIECCmd(), newFetchCmd(), newShowCmd())
}

func newDownloadCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download records edited in a date range into JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if from == "" {
				from = cfg.Download.Start
			}
			if to == "" {
				to = cfg.Download.End
			}
			start, end, err := pipeline.ParseRange(from, to, time.Now())
			if err != nil {
				return err
			}

			d := &pipeline.Downloader{
				Registry: newRegistryClient(cfg),
				DataDir:  cfg.DataDir,
				Workers:  cfg.Download.Workers,
				Options:  pipeline.Options{InlineNumbered: cfg.IEC.InlineNumbered},
			}
			sum, err := d.Run(cmd.Context(), pipeline.Windows(start, end, cfg.Download.WindowDays))
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(sum))
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first last-edited date (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "end date, exclusive (default today)")
	return cmd
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load downloaded JSON files into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := (&pipeline.Loader{Store: s, DataDir: cfg.DataDir}).Run(cmd.Context())
			if err != nil {
				return err
			}
			total, err := s.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(fmt.Sprintf("loaded %d studies, %d in %s", n, total, cfg.DB.Path)))
			return nil
		},
	}
}

func newIECCmd() *cobra.Command {
	var kind, study string
	var numbered bool
	cmd := &cobra.Command{
		Use:   "iec [file]",
		Short: "Parse a criteria text (file or stdin) and print the rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := iec.Kind(kind)
			if k != iec.Inclusion && k != iec.Exclusion {
				return fmt.Errorf("unknown kind %q", kind)
			}
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			p := iec.NewTypeParams(study, k)
			var res iec.Result
			if numbered {
				res = iec.ParseNumbered(p, string(raw))
			} else {
				res = iec.Parse(p, string(raw))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCriteria(k, res))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(iec.Inclusion), "inclusion or exclusion")
	cmd.Flags().StringVar(&study, "study", "", "study id written into the rows")
	cmd.Flags().BoolVar(&numbered, "numbered", false, "use the inline numbered splitter")
	return cmd
}

func newRegistryClient(cfg *config.Config) *registry.Client {
	// reusable HTTP client with timeout
	var doer registry.Doer = &http.Client{Timeout: cfg.API.Timeout}
	if cfg.API.CacheDir != "" {
		doer = registry.NewCachingClient(cfg.API.CacheDir, doer)
	}
	return registry.NewClient(cfg.API.BaseURL, doer, cfg.API.RatePerSec, cfg.API.PageSize)
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <isrctn>",
		Short: "Fetch one record from the registry and print its parsed criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ft, err := newRegistryClient(cfg).Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := pipeline.Transform(*ft, pipeline.Options{InlineNumbered: cfg.IEC.InlineNumbered})
			fmt.Fprint(cmd.OutOrStdout(), renderStudy(st))
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <sd_sid>",
		Short: "Print the criteria rows stored for a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			s, err := store.NewSQLiteStore(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			id := args[0]
			flag, err := s.IECFlag(cmd.Context(), id)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("study %s is not in %s", id, cfg.DB.Path)
			}
			if err != nil {
				return err
			}
			rows, err := s.LoadCriteria(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStudy(model.Study{SdSid: id, DisplayTitle: id, Criteria: rows, IECFlag: flag}))
			return nil
		},
	}
}
