package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cardnote-app/cardnote/internal/config"
	"github.com/cardnote-app/cardnote/internal/export"
	"github.com/cardnote-app/cardnote/internal/log"
	"github.com/cardnote-app/cardnote/internal/mcp"
	"github.com/cardnote-app/cardnote/internal/schedule"
	"github.com/cardnote-app/cardnote/internal/store"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "contacts":
		err = runContacts(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "delete":
		err = runDelete(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("cardnote %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Error("command failed", err, "command", os.Args[1])
		os.Exit(1)
	}
}

// cmdOpts holds the flags shared by every subcommand plus whatever
// positional arguments and per-command flags remain.
type cmdOpts struct {
	cfg  config.ResolvedConfig
	rest []string
	flag map[string]string
}

// parseArgs splits args into positional arguments and --flag values,
// then resolves configuration. Flags listed in boolFlags take no value;
// --verbose is a bool flag on every command.
func parseArgs(args []string, boolFlags ...string) (cmdOpts, error) {
	opts := cmdOpts{flag: map[string]string{}}

	isBool := func(name string) bool {
		if name == "verbose" {
			return true
		}
		for _, b := range boolFlags {
			if b == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			opts.rest = append(opts.rest, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if isBool(name) {
			opts.flag[name] = "true"
			continue
		}
		if i+1 >= len(args) {
			return opts, fmt.Errorf("flag --%s requires a value", name)
		}
		opts.flag[name] = args[i+1]
		i++
	}

	if opts.flag["verbose"] == "true" {
		log.SetLevel(log.LevelDebug)
	}

	cfg, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath:  opts.flag["config"],
		CLIDBPath:   opts.flag["db"],
		CLITimezone: opts.flag["tz"],
	})
	if err != nil {
		return opts, err
	}
	opts.cfg = cfg

	log.Debug("resolved config",
		"db", cfg.DBPath.Value, "db_source", cfg.DBPath.Source,
		"tz", cfg.Timezone.Value, "tz_source", cfg.Timezone.Source)
	return opts, nil
}

func openStore(opts cmdOpts) (store.Store, error) {
	return store.NewStore(store.Config{DBPath: opts.cfg.DBPath.Value})
}

func runParse(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.rest) == 0 {
		return fmt.Errorf("usage: cardnote parse <text> [--contact NAME]")
	}

	text := strings.Join(opts.rest, " ")
	now := time.Now().In(opts.cfg.Location())

	rec := schedule.NewEngine().Extract(text, opts.flag["contact"], "", now)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runAdd(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.rest) == 0 {
		return fmt.Errorf("usage: cardnote add <text> --contact NAME")
	}
	contactName := strings.TrimSpace(opts.flag["contact"])
	if contactName == "" {
		return fmt.Errorf("--contact is required")
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	contact, err := s.FindContactByName(ctx, contactName)
	if err == store.ErrNotFound {
		contact, err = s.AddContact(ctx, contactName)
		if err == nil {
			log.Info("created contact", "id", contact.ID, "name", contact.Name)
		}
	}
	if err != nil {
		return fmt.Errorf("resolving contact: %w", err)
	}

	text := strings.Join(opts.rest, " ")
	now := time.Now().In(opts.cfg.Location())
	rec := schedule.NewEngine().Extract(text, contact.Name, contact.ID, now)

	id, err := s.AddSchedule(ctx, &rec)
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	rec.ID = id

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runContacts(args []string) error {
	// Subcommands: "contacts" lists, "contacts add <name>" creates,
	// "contacts delete <id>" removes the contact and its schedules.
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()

	if len(opts.rest) > 0 {
		switch opts.rest[0] {
		case "add":
			if len(opts.rest) < 2 {
				return fmt.Errorf("usage: cardnote contacts add <name>")
			}
			c, err := s.AddContact(ctx, strings.Join(opts.rest[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", c.ID, c.Name)
			return nil
		case "delete":
			if len(opts.rest) < 2 {
				return fmt.Errorf("usage: cardnote contacts delete <id>")
			}
			if err := s.DeleteContact(ctx, opts.rest[1]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		default:
			return fmt.Errorf("unknown contacts subcommand: %s", opts.rest[0])
		}
	}

	contacts, err := s.ListContacts(ctx)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		fmt.Println("No contacts.")
		return nil
	}
	for _, c := range contacts {
		fmt.Printf("%s  %s  (since %s)\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runList(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	listOpts := store.ListOpts{}

	if name := strings.TrimSpace(opts.flag["contact"]); name != "" {
		contact, err := s.FindContactByName(ctx, name)
		if err == store.ErrNotFound {
			fmt.Println("No schedules.")
			return nil
		}
		if err != nil {
			return err
		}
		listOpts.ContactID = contact.ID
	}
	if v := opts.flag["limit"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid --limit %q", v)
		}
		listOpts.Limit = n
	}

	records, err := s.ListSchedules(ctx, listOpts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No schedules.")
		return nil
	}

	for _, r := range records {
		when := r.Date.Format("2006-01-02")
		if r.Time != nil {
			when += " " + r.Time.String()
		}
		fmt.Printf("%s  %-16s  [%s]  %s\n", r.ID, when, r.Type, r.Title)
	}
	return nil
}

func runDelete(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.rest) == 0 {
		return fmt.Errorf("usage: cardnote delete <schedule-id>")
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	if err := s.DeleteSchedule(context.Background(), opts.rest[0]); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func runExport(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	listOpts := store.ListOpts{}

	if name := strings.TrimSpace(opts.flag["contact"]); name != "" {
		contact, err := s.FindContactByName(ctx, name)
		if err != nil {
			return fmt.Errorf("resolving contact: %w", err)
		}
		listOpts.ContactID = contact.ID
	}

	records, err := s.ListSchedules(ctx, listOpts)
	if err != nil {
		return err
	}

	out := export.ICS(records, opts.cfg.Location())

	if path := opts.flag["out"]; path != "" {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Info("wrote calendar", "path", path, "events", len(records))
		return nil
	}
	fmt.Print(out)
	return nil
}

func runStats(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Contacts:   %d\n", stats.ContactCount)
	fmt.Printf("Schedules:  %d\n", stats.ScheduleCount)
	if stats.DBSizeBytes > 0 {
		fmt.Printf("DB size:    %.1f KB\n", float64(stats.DBSizeBytes)/1024)
	}
	fmt.Printf("DB path:    %s (%s)\n", opts.cfg.DBPath.Value, opts.cfg.DBPath.Source)
	fmt.Printf("Timezone:   %s (%s)\n", opts.cfg.Timezone.Value, opts.cfg.Timezone.Source)
	return nil
}

func runMCP(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	s, err := openStore(opts)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	log.Info("starting mcp server", "version", version, "tz", opts.cfg.Timezone.Value)

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:    s,
		Version:  version,
		Location: opts.cfg.Location(),
	})
	return mcp.ServeStdio(srv)
}

func printUsage() {
	fmt.Printf(`cardnote %s — Schedule extraction for free-text contact notes

Usage:
  cardnote <command> [arguments]

Commands:
  parse <text>        Extract a schedule from text and print it (no save)
  add <text>          Extract and save a schedule (--contact required)
  contacts            List contacts (subcommands: add <name>, delete <id>)
  list                List saved schedules
  delete <id>         Delete a schedule record
  export              Export schedules as an iCalendar feed
  stats               Show store statistics
  mcp                 Serve the MCP stdio interface
  version             Print version

Flags:
  --contact NAME      Contact the note is about (parse, add, list, export)
  --limit N           Maximum records to list
  --out FILE          Write export output to FILE instead of stdout
  --db PATH           Database path (default %s)
  --config PATH       Config file path
  --tz ZONE           IANA timezone for date anchoring
  --verbose           Enable debug logging
  -h, --help          Show this help message
`, version, store.DefaultDBPath)
}
