package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sidelen.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
input:
  format: PCAP
decoder:
  charset: iso-8859-1
store:
  path: /var/lib/sidelen
metrics:
  listen: 127.0.0.1:9464
log:
  verbose: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.Format != FormatPcap {
		t.Fatalf("format = %q", cfg.Input.Format)
	}
	if cfg.Store.Path != "/var/lib/sidelen" || cfg.Metrics.Listen != "127.0.0.1:9464" || !cfg.Log.Verbose {
		t.Fatalf("unexpected config %+v", cfg)
	}
	enc, err := cfg.Charset()
	if err != nil {
		t.Fatal(err)
	}
	// The WHATWG index maps iso-8859-1 onto windows-1252.
	if enc != charmap.Windows1252 {
		t.Fatalf("charset = %v", enc)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "store:\n  path: x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input.Format != FormatText || cfg.Decoder.Charset != defaultCharset {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"format", "input:\n  format: csv\n", ErrUnknownFormat},
		{"charset", "decoder:\n  charset: klingon\n", ErrUnknownCharset},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLookupCharsetUTF8IsPassthrough(t *testing.T) {
	for _, label := range []string{"", "utf-8", "UTF8"} {
		enc, err := LookupCharset(label)
		if err != nil {
			t.Fatalf("%q: %v", label, err)
		}
		if enc != nil {
			t.Fatalf("%q resolved to %v, want nil", label, enc)
		}
	}
}
