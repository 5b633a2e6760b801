package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/gonggu-app/gonggu/internal/config"
	"github.com/gonggu-app/gonggu/internal/credits"
	"github.com/gonggu-app/gonggu/internal/logging"
	"github.com/gonggu-app/gonggu/internal/store/redisstore"
	"github.com/gonggu-app/gonggu/internal/store/sqlitestore"
	"github.com/gonggu-app/gonggu/internal/tui"
	"github.com/gonggu-app/gonggu/pkg/client"
	"github.com/gonggu-app/gonggu/pkg/domain"
	"github.com/gonggu-app/gonggu/pkg/store"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI is swapped in tests.
var runTUI = func(c *client.Client, l *credits.Ledger) error {
	p := tea.NewProgram(tui.NewApp(c, l, version), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(out, "gonggu "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(out)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck
	log.Debug("store opened", zap.String("kind", cfg.Store))

	c := client.New(cfg.APIURL, st, client.WithLogger(log), client.WithTimeout(cfg.Timeout))

	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runLogin(ctx, st, args[1:], out)
		case "logout":
			return runLogout(ctx, st, out)
		case "rooms":
			return runRooms(ctx, c, args[1:], out)
		case "credits":
			ledger, err := credits.Load(ctx, st, log)
			if err != nil {
				return err
			}
			return runCredits(ctx, ledger, args[1:], out)
		default:
			return fmt.Errorf("unknown command %q (see gonggu help)", args[0])
		}
	}

	tok, err := st.Get(ctx, client.TokenKey)
	if errors.Is(err, store.ErrNotFound) || (err == nil && tok == "") {
		printGreeting(out)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	ledger, err := credits.Load(ctx, st, log)
	if err != nil {
		return err
	}
	return runTUI(c, ledger)
}

// openStore returns the configured backend and its closer.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(), noop, nil
	case config.StoreRedis:
		s, err := redisstore.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.Home, 0700); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", cfg.Home, err)
		}
		s, err := sqlitestore.Open(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return store.NewFile(cfg.StatePath()), noop, nil
	}
}

func runLogin(ctx context.Context, st store.Store, args []string, out io.Writer) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: gonggu login <token>")
	}
	if err := st.Set(ctx, client.TokenKey, strings.TrimSpace(args[0])); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintln(out, "Logged in. Run gonggu to open the rooms.")
	return nil
}

func runLogout(ctx context.Context, st store.Store, out io.Writer) error {
	if _, err := st.Get(ctx, client.TokenKey); errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := st.Remove(ctx, client.TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runRooms(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	category := ""
	if len(args) > 0 {
		category = args[0]
		if !domain.ValidCategory(category) {
			return fmt.Errorf("unknown category %q", category)
		}
	}
	rooms, err := c.ListRooms(ctx, category)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Fprintln(out, "No open rooms.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "RESTAURANT", "CATEGORY", "ORDERED", "MINIMUM", "PEOPLE", "FEE/PERSON")
	for _, r := range rooms {
		t.Row(
			r.ID,
			r.RestaurantName,
			domain.CategoryLabel(r.CategoryID),
			strconv.Itoa(r.OrderTotal()),
			strconv.Itoa(r.MinOrderAmount),
			strconv.Itoa(len(r.Participants)),
			strconv.Itoa(r.FeeShare()),
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func runCredits(ctx context.Context, l *credits.Ledger, args []string, out io.Writer) error {
	if len(args) == 0 {
		st := l.State()
		fmt.Fprintf(out, "credits: %d\n", st.Credits)
		if len(st.RevealedContacts) == 0 {
			fmt.Fprintln(out, "revealed: none")
			return nil
		}
		fmt.Fprintf(out, "revealed: %s\n", strings.Join(st.RevealedContacts, ", "))
		return nil
	}

	switch args[0] {
	case "spend":
		if len(args) != 2 {
			return errors.New("usage: gonggu credits spend <id>")
		}
		ok, err := l.Spend(ctx, args[1])
		if err != nil {
			return err
		}
		switch {
		case ok:
			fmt.Fprintf(out, "revealed %s (%d left)\n", args[1], l.Credits())
		case l.IsRevealed(args[1]):
			fmt.Fprintf(out, "%s is already revealed\n", args[1])
		default:
			return errors.New("not enough credits")
		}
	case "check":
		if len(args) != 2 {
			return errors.New("usage: gonggu credits check <id>")
		}
		fmt.Fprintln(out, l.IsRevealed(args[1]))
	case "reset":
		if err := l.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "credits reset to %d\n", l.Credits())
	case "grant":
		if len(args) != 2 {
			return errors.New("usage: gonggu credits grant <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("grant needs a positive number, got %q", args[1])
		}
		if err := l.Grant(ctx, n); err != nil {
			return err
		}
		fmt.Fprintf(out, "credits: %d\n", l.Credits())
	default:
		return fmt.Errorf("unknown credits command %q", args[0])
	}
	return nil
}
