// Command telestore is a storefront client for a Telegram-fronted service
// panel: wallet and account summary, owned-service catalog, the purchase
// wizard, and renewals.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amiranbari/telestore/internal/backend"
	"github.com/amiranbari/telestore/internal/config"
	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/flow"
	"github.com/amiranbari/telestore/internal/model"
	"github.com/amiranbari/telestore/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `telestore CLI
Usage:
  telestore [-config file] <cmd> [args]

Commands:
  version
  home                                  dashboard: greeting, wallet, shortcuts
  account                               profile and counters
  services    [-status all|active|expired|low] [-search q]
  service     -u <username>             detail view
  link        -u <username>             print the subscription link
  buy                                   interactive purchase wizard
  renew       -u <username>             interactive renewal
  set-token   <token>                   persist the access token
  clear-token                           drop the persisted token
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// newLogger builds the CLI logger: console encoding to stderr so command
// output on stdout stays clean.
func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// app bundles the wiring every networked subcommand needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	api      backend.API
	host     session.Host
	identity session.Identity
	in       *bufio.Reader
}

func newApp(cfg *config.Config, log *zap.Logger) *app {
	identity := session.Resolve(cfg.Telegram.InitData, cfg.Telegram.BotToken, cfg.Telegram.DevUserID, log)

	store := session.NewTokenStore("")
	token, err := store.Load()
	if err != nil && cfg.Backend.Token != "" {
		// first run: seed the store from config/env
		token = cfg.Backend.Token
		if serr := store.Save(token); serr != nil {
			log.Warn("token seed", zap.Error(serr))
		}
	}

	api, err := backend.New(backend.Options{
		Endpoint: cfg.Backend.Endpoint,
		Variant:  cfg.Backend.Variant,
		Token:    token,
		UserID:   identity.ID,
		Timeout:  cfg.Backend.Timeout,
	}, log)
	if err != nil {
		fail(err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		api:      api,
		host:     session.NewTerminalHost(os.Stdin, os.Stdout),
		identity: identity,
		in:       bufio.NewReader(os.Stdin),
	}
}

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "config file (YAML)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	// token commands need no backend config
	switch cmd {
	case "version":
		fmt.Printf("telestore %s (%s)\n", version, buildDate)
		return
	case "set-token":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "need a token argument")
			os.Exit(1)
		}
		if err := session.NewTokenStore("").Save(flag.Arg(1)); err != nil {
			fail(err)
		}
		fmt.Println("ok")
		return
	case "clear-token":
		if err := session.NewTokenStore("").Clear(); err != nil {
			fail(err)
		}
		fmt.Println("ok")
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	log := newLogger(cfg.Logging.Level)
	defer func() { _ = log.Sync() }()

	a := newApp(cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cmd {
	case "home":
		a.cmdHome(ctx)
	case "account":
		a.cmdAccount(ctx)
	case "services":
		a.cmdServices(ctx, flag.Args()[1:])
	case "service":
		a.cmdService(ctx, flag.Args()[1:])
	case "link":
		a.cmdLink(ctx, flag.Args()[1:])
	case "buy":
		a.cmdBuy(ctx)
	case "renew":
		a.cmdRenew(ctx, flag.Args()[1:])
	default:
		usage()
	}
}

func (a *app) cmdHome(ctx context.Context) {
	h := flow.NewHome(a.api, a.identity)
	h.Load(ctx)

	fmt.Println(h.Greeting())
	u := h.User()
	fmt.Printf("wallet: %s\n", model.FormatAmount(u.WalletBalance))
	fmt.Printf("active services: %d  purchases: %d\n", u.ActiveServices, u.TotalPurchases)
	fmt.Println()
	for _, qa := range flow.QuickActions {
		fmt.Printf("  %-16s %s\n", qa.Title, qa.Path)
	}
}

func (a *app) cmdAccount(ctx context.Context) {
	ac := flow.NewAccount(a.api, a.identity)
	ac.Load(ctx)

	id := ac.Identity()
	u := ac.User()
	fmt.Printf("name: %s\n", id.DisplayName())
	if id.Username != "" {
		fmt.Printf("username: @%s\n", id.Username)
	}
	fmt.Printf("wallet: %s\n", model.FormatAmount(u.WalletBalance))
	fmt.Printf("active services: %d\n", u.ActiveServices)
	fmt.Printf("purchases: %d  invoices: %d  referrals: %d\n", u.TotalPurchases, u.InvoicesCount, u.ReferralsCount)
	if since := u.MemberSince(); !since.IsZero() {
		fmt.Printf("member since: %s\n", since.Format("2006-01-02"))
	}
}

func (a *app) cmdServices(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("services", flag.ExitOnError)
	status := fs.String("status", "all", "status tab: all|active|expired|low")
	search := fs.String("search", "", "name/username query")
	_ = fs.Parse(args)

	c := flow.NewCatalog(a.api, a.host, a.log)
	c.SetFilter(ctx, model.StatusFilter(*status))
	if *search != "" {
		c.Search(ctx, *search)
	}

	printServices(c.Services())
}

func printServices(services []model.Service) {
	if len(services) == 0 {
		fmt.Println("no services")
		return
	}
	now := time.Now()
	for _, s := range services {
		fmt.Printf("%-20s %-12s %3.0f%% used, %d days left\n",
			s.DisplayName(), s.Badge(now), s.TrafficPercent(), s.DaysLeft(now))
		switch s.Warning(now) {
		case model.WarningExpiring:
			fmt.Printf("%20s   expires soon\n", "")
		case model.WarningLowTraffic:
			fmt.Printf("%20s   traffic almost exhausted\n", "")
		}
	}
}

func (a *app) cmdService(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("service", flag.ExitOnError)
	username := fs.String("u", "", "service username")
	_ = fs.Parse(args)
	if *username == "" {
		fmt.Fprintln(os.Stderr, "need -u")
		os.Exit(1)
	}

	d := flow.NewDetail(a.api, a.host, a.log, *username)
	if err := d.Load(ctx); err != nil {
		os.Exit(1) // user already notified
	}
	printService(d.Service())
}

func printService(s *model.Service) {
	now := time.Now()
	fmt.Printf("%s [%s]\n", s.DisplayName(), s.Badge(now))
	fmt.Printf("username: %s\n", s.Username)
	fmt.Printf("traffic: %s of %s (%.1f%%), %s remaining\n",
		model.FormatBytes(s.UsedTraffic), model.FormatBytes(s.TotalTraffic),
		s.TrafficPercent(), model.FormatBytes(s.RemainingTraffic()))
	fmt.Printf("expires: %s (%d days)\n",
		time.Unix(s.ExpireTime, 0).Format("2006-01-02"), s.DaysLeft(now))
}

func (a *app) cmdLink(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	username := fs.String("u", "", "service username")
	_ = fs.Parse(args)
	if *username == "" {
		fmt.Fprintln(os.Stderr, "need -u")
		os.Exit(1)
	}

	d := flow.NewDetail(a.api, a.host, a.log, *username)
	link, err := d.SubscriptionLink(ctx)
	if err != nil {
		os.Exit(1) // user already notified
	}
	fmt.Println(link)
}

// cmdBuy runs the wizard interactively: one prompt per step, "b" steps back.
func (a *app) cmdBuy(ctx context.Context) {
	w := flow.NewWizard(a.api, a.host, a.log)
	w.Start(ctx)
	if len(w.Categories()) == 0 {
		os.Exit(1)
	}
	fmt.Printf("wallet: %s\n", model.FormatAmount(w.Balance()))

	for {
		switch w.Step() {
		case flow.StepSelectCategory:
			for _, c := range w.Categories() {
				fmt.Printf("  %d) %s\n", c.ID, c.Name)
			}
			id, back := a.promptInt("category id")
			if back {
				if w.Back() {
					return
				}
				continue
			}
			if err := w.SelectCategory(id); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

		case flow.StepSelectDuration:
			for _, d := range model.Durations {
				fmt.Printf("  %d) %s\n", d.Days, d.Label)
			}
			days, back := a.promptInt("duration (days)")
			if back {
				w.Back()
				continue
			}
			if err := w.SelectDuration(ctx, int(days)); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

		case flow.StepSelectProduct:
			if len(w.Products()) == 0 {
				fmt.Println("no plans for this duration")
			}
			for _, p := range w.Products() {
				fmt.Printf("  %d) %s  %d GB, %s\n", p.ID, p.Title, p.Volume, model.FormatAmount(p.Price))
			}
			id, back := a.promptInt("product id")
			if back {
				w.Back()
				continue
			}
			if err := w.SelectProduct(id); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

		case flow.StepConfirmPayment:
			s := w.Summary()
			fmt.Printf("%s / %s: %d GB for %d days, %s\n",
				s.Category, s.Product, s.Volume, s.Days, model.FormatAmount(s.Price))
			done, err := w.Purchase(ctx)
			if done {
				// land on the owned-services list, wallet freshly debited
				c := flow.NewCatalog(a.api, a.host, a.log)
				c.Load(ctx)
				printServices(c.Services())
				return
			}
			if errors.Is(err, errs.ErrInsufficientBalance) {
				// selections stay intact; stepping back is the user's call
				if !a.host.Confirm("choose a cheaper plan?") {
					return
				}
				w.Back()
				continue
			}
			if err != nil {
				os.Exit(1)
			}
			if !a.host.Confirm("try again?") {
				return
			}
		}
	}
}

// cmdRenew shows the detail, opens the renewal dialog, and commits one renewal.
func (a *app) cmdRenew(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("renew", flag.ExitOnError)
	username := fs.String("u", "", "service username")
	_ = fs.Parse(args)
	if *username == "" {
		fmt.Fprintln(os.Stderr, "need -u")
		os.Exit(1)
	}

	d := flow.NewDetail(a.api, a.host, a.log, *username)
	if err := d.Load(ctx); err != nil {
		os.Exit(1)
	}
	printService(d.Service())
	fmt.Printf("wallet: %s\n", model.FormatAmount(d.User().WalletBalance))

	d.OpenRenew(ctx)
	if len(d.Products()) == 0 {
		os.Exit(1)
	}
	for _, p := range d.Products() {
		fmt.Printf("  %d) %s  %d GB for %d days, %s\n", p.ID, p.Title, p.Volume, p.Days, model.FormatAmount(p.Price))
	}

	for {
		id, back := a.promptInt("product id")
		if back {
			d.CloseRenew()
			return
		}
		if err := d.SelectProduct(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		done, err := d.ConfirmRenew(ctx)
		if done {
			printService(d.Service())
			return
		}
		if errors.Is(err, errs.ErrInsufficientBalance) {
			continue // user was notified, may pick a cheaper plan
		}
		if err != nil {
			os.Exit(1)
		}
		if !a.host.Confirm("try again?") {
			d.CloseRenew()
			return
		}
	}
}

// promptInt reads one numeric choice; "b" or an empty EOF means back.
func (a *app) promptInt(label string) (int64, bool) {
	for {
		fmt.Printf("%s (b=back): ", label)
		line, err := a.in.ReadString('\n')
		if err != nil {
			return 0, true
		}
		line = strings.TrimSpace(line)
		if line == "b" || line == "back" {
			return 0, true
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "enter a number or b")
			continue
		}
		return n, false
	}
}
