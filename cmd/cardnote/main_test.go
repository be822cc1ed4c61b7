package main

import (
	"path/filepath"
	"testing"
)

func TestParseArgs_FlagsAndPositionals(t *testing.T) {
	t.Setenv("CARDNOTE_DB", "")
	t.Setenv("CARDNOTE_DB_PATH", "")
	t.Setenv("CARDNOTE_TZ", "")

	opts, err := parseArgs([]string{
		"明天下午2點開會", "--contact", "王經理", "--db", "/tmp/test.db",
	})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	if len(opts.rest) != 1 || opts.rest[0] != "明天下午2點開會" {
		t.Errorf("rest = %v, want the note text", opts.rest)
	}
	if opts.flag["contact"] != "王經理" {
		t.Errorf("contact = %q", opts.flag["contact"])
	}
	if opts.cfg.DBPath.Value != "/tmp/test.db" {
		t.Errorf("db path = %q", opts.cfg.DBPath.Value)
	}
	if opts.cfg.DBPath.Source != "cli" {
		t.Errorf("db path source = %q, want cli", opts.cfg.DBPath.Source)
	}
}

func TestParseArgs_VerboseTakesNoValue(t *testing.T) {
	t.Setenv("CARDNOTE_DB", "")
	t.Setenv("CARDNOTE_DB_PATH", "")
	t.Setenv("CARDNOTE_TZ", "")

	opts, err := parseArgs([]string{"--verbose", "some text"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.flag["verbose"] != "true" {
		t.Errorf("verbose = %q, want true", opts.flag["verbose"])
	}
	if len(opts.rest) != 1 || opts.rest[0] != "some text" {
		t.Errorf("rest = %v, want the text untouched by --verbose", opts.rest)
	}
}

func TestParseArgs_MissingFlagValue(t *testing.T) {
	if _, err := parseArgs([]string{"--contact"}); err == nil {
		t.Fatal("expected error for flag without value")
	}
}

func TestParseArgs_TildeExpansion(t *testing.T) {
	t.Setenv("CARDNOTE_DB", "")
	t.Setenv("CARDNOTE_DB_PATH", "")

	opts, err := parseArgs([]string{"--db", "~/notes.db"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if filepath.Base(opts.cfg.DBPath.Value) != "notes.db" {
		t.Errorf("db path = %q", opts.cfg.DBPath.Value)
	}
	if opts.cfg.DBPath.Value == "~/notes.db" {
		t.Error("tilde was not expanded")
	}
}
