package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Operative-001/sidelen/internal/config"
	"github.com/Operative-001/sidelen/internal/crypto"
	"github.com/Operative-001/sidelen/internal/decoder"
	"github.com/Operative-001/sidelen/internal/frame"
	"github.com/Operative-001/sidelen/internal/metrics"
	"github.com/Operative-001/sidelen/internal/results"
	"github.com/Operative-001/sidelen/internal/solver"
)

var errScanFailed = errors.New("no link was decoded")

var rootCmd = &cobra.Command{
	Use:   "sidelen",
	Short: "Recover provisioning credentials from frame lengths.",
	Long: `sidelen: passive decoder for length-encoded Wi-Fi provisioning.

A device without network access is told the network name and passphrase
by a phone that encodes every byte as the length of a broadcast frame.
sidelen watches only (source, destination, length) and reconstructs both.`,
	SilenceUsage: true,
}

// ─── decode ──────────────────────────────────────────────────────────────────

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode frames read from a file or stdin",
	Long: `Decode frames read from a file or stdin.

Text input holds one frame per line with five tab-separated columns:
bssid, channel, source, destination, length. For example:

  tshark -i mon0 -l -T fields -e wlan.bssid -e wlan_radio.channel \
      -e wlan.sa -e wlan.da -e frame.len | sidelen decode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return scan(cfg, cfg.Input.Format, path)
	},
}

// ─── pcap ────────────────────────────────────────────────────────────────────

var pcapCmd = &cobra.Command{
	Use:   "pcap <file>",
	Short: "Decode 802.11 data frames from a pcap capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return scan(cfg, config.FormatPcap, args[0])
	},
}

// ─── results ─────────────────────────────────────────────────────────────────

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List credentials decoded by earlier runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Store.Path == "" {
			return errors.New("no results store configured (use --store)")
		}
		store, err := results.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open results: %w", err)
		}
		defer store.Close()

		entries, err := store.All()
		if err != nil {
			return err
		}
		fmt.Printf("Results: %d entries\n", len(entries))
		for _, e := range entries {
			fmt.Printf("  %-40s ssid=[%s] passphrase=[%s] offset=%d decoded=%s\n",
				e.Link, solver.Escape(e.SSID), solver.Escape(e.Passphrase), e.Offset,
				time.Unix(e.Timestamp, 0).Format(time.RFC3339))
			if e.PSK != "" {
				fmt.Printf("  %-40s psk=%s\n", "", e.PSK)
			}
		}
		return nil
	},
}

// ─── psk ─────────────────────────────────────────────────────────────────────

var pskCmd = &cobra.Command{
	Use:   "psk <ssid> <passphrase>",
	Short: "Print the WPA pre-shared key for a network name and passphrase",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		psk, err := crypto.DerivePSKHex(args[1], args[0])
		if err != nil {
			return err
		}
		fmt.Println(psk)
		return nil
	},
}

// loadConfig reads --config, if given, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("charset") {
		cfg.Decoder.Charset, _ = flags.GetString("charset")
	}
	if flags.Changed("store") {
		cfg.Store.Path, _ = flags.GetString("store")
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Listen, _ = flags.GetString("metrics")
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("format") {
		cfg.Input.Format, _ = flags.GetString("format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSource(format, path string) (frame.Source, io.Closer, error) {
	var r io.ReadCloser = os.Stdin
	name := "stdin"
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		r, name = f, path
	}

	if format == config.FormatPcap {
		src, err := frame.NewPcapReader(r)
		if err != nil {
			r.Close()
			return nil, nil, err
		}
		log.Printf("input: reading capture %s", name)
		return src, r, nil
	}
	log.Printf("input: reading frames from %s", name)
	return frame.NewTextReader(r), r, nil
}

func scan(cfg *config.Config, format, path string) error {
	charset, err := cfg.Charset()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg, cfg.Log.Verbose)
	if cfg.Metrics.Listen != "" {
		srv := metrics.Serve(cfg.Metrics.Listen, reg)
		defer srv.Close()
		log.Printf("metrics: serving on http://%s/metrics", cfg.Metrics.Listen)
	}

	var store *results.Store
	if cfg.Store.Path != "" {
		if err := os.MkdirAll(cfg.Store.Path, 0700); err != nil {
			return err
		}
		store, err = results.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open results: %w", err)
		}
		defer store.Close()
	}

	src, closer, err := openSource(format, path)
	if err != nil {
		return err
	}
	defer closer.Close()

	verbose := cfg.Log.Verbose
	analyzer := decoder.NewAnalyzer(decoder.Config{
		Charset:  charset,
		Recorder: collector,
		OnSolved: func(s decoder.Solution) {
			if verbose {
				log.Printf("decoder: %s offset %d solved %s: [%s]", s.Link, s.Offset, s.Field, solver.Escape(s.Text))
			}
		},
	})

	type outcome struct {
		found   bool
		skipped int
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		found, skipped, err := frame.Drain(src, analyzer.Observe)
		done <- outcome{found, skipped, err}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var res outcome
	select {
	case res = <-done:
	case <-sig:
		log.Printf("Scan interrupted")
		return errScanFailed
	}

	if res.skipped > 0 {
		log.Printf("input: skipped %d malformed records", res.skipped)
	}
	if res.err != nil {
		return fmt.Errorf("read input: %w", res.err)
	}
	if !res.found {
		log.Printf("Scan failed")
		return errScanFailed
	}

	log.Printf("Scan succeeded")
	solved := color.New(color.FgGreen, color.Bold)
	for _, c := range analyzer.Solved() {
		fmt.Printf("\n✓ %s (offset %d)\n", c.Link, c.Offset)
		solved.Printf("  Solved SSID: [%s]\n", solver.Escape(c.SSID))
		solved.Printf("  Solved passphrase: [%s]\n", solver.Escape(c.Passphrase))
		if psk, err := crypto.DerivePSKHex(c.Passphrase, c.SSID); err == nil {
			fmt.Printf("  PSK: %s\n", psk)
		}
		if store != nil {
			if err := store.Put(results.NewEntry(c, time.Now())); err != nil {
				log.Printf("results: %v", err)
			}
		}
	}
	return nil
}

// globalFlags registers the flags shared by every subcommand of cmd.
func globalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "YAML configuration file")
	cmd.PersistentFlags().String("charset", "utf-8", "Text encoding of decoded fields (WHATWG label)")
	cmd.PersistentFlags().String("store", "", "Directory for the results database (empty = don't store)")
	cmd.PersistentFlags().String("metrics", "", "Serve Prometheus metrics on this address")
	cmd.PersistentFlags().Bool("verbose", false, "Log every extraction attempt")
}

func init() {
	globalFlags(rootCmd)

	decodeCmd.Flags().String("format", config.FormatText, "Input format: text or pcap")

	rootCmd.AddCommand(decodeCmd, pcapCmd, resultsCmd, pskCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
