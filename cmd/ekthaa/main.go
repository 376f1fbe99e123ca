// Command ekthaa is the customer client for the Ekthaa ledger and offers
// backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ekthaa/customer-client/internal/app"
	"github.com/ekthaa/customer-client/internal/client"
	"github.com/ekthaa/customer-client/internal/config"
	"github.com/ekthaa/customer-client/internal/session"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/ekthaa/customer-client/internal/validate"
)

const usage = `usage: ekthaa <command> [flags] [args]

Account:
  login [-phone P] [-password P]      sign in
  register -name N -phone P           create an account
  logout                              sign out
  passwd                              change password
  profile [-name ...] [-email ...]    show or edit profile
  theme                               toggle light/dark

Ledger:
  dashboard                           totals and recent activity
  businesses                          connected businesses
  business <id>                       public profile of a business
  connect <pin>                       connect to a business by access PIN
  ledger <id> [-type T] [-q Q] [-pdf F]
  transactions [-type T] [-q Q]
  pay <id> <amount> [-notes N] [-receipt F]
  credit <id> <amount> [-notes N] [-receipt F]

Catalog and documents:
  offers                              offers from your businesses
  products [-q Q]                     search the public catalog
  invoice -file F.json -out F.pdf     generate a GST invoice
  qr -out F                           download your QR code

Environment: EKTHAA_BASE_URL, EKTHAA_TIMEOUT, EKTHAA_SESSION_FILE, EKTHAA_VERBOSE
`

type command func(ctx context.Context, cli *cli, args []string) error

var commands = map[string]command{
	"login":        runLogin,
	"register":     runRegister,
	"logout":       runLogout,
	"passwd":       runPasswd,
	"profile":      runProfile,
	"theme":        runTheme,
	"dashboard":    runDashboard,
	"businesses":   runBusinesses,
	"business":     runBusiness,
	"connect":      runConnect,
	"ledger":       runLedger,
	"transactions": runTransactions,
	"pay":          runRecord,
	"credit":       runRecord,
	"offers":       runOffers,
	"products":     runProducts,
	"invoice":      runInvoice,
	"qr":           runQR,
}

// cli bundles what every command needs
type cli struct {
	app    *app.Controller
	name   string
	stdin  *bufio.Reader
	logger *utils.Logger
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	name := os.Args[1]
	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "ekthaa: unknown command %q\n\n%s", name, usage)
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	logger := utils.NewLoggerTo(discardUnlessVerbose(), os.Stderr)

	if err := os.MkdirAll(filepath.Dir(cfg.Client.SessionFile), 0o700); err != nil {
		fatal(fmt.Errorf("error creating session dir: %w", err))
	}
	sess, err := session.NewManager(session.NewFileStore(cfg.Client.SessionFile))
	if err != nil {
		fatal(err)
	}
	c := client.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout, sess, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, &cli{
		app:    app.NewController(c, logger),
		name:   name,
		stdin:  bufio.NewReader(os.Stdin),
		logger: logger,
	}, os.Args[2:])
	if err != nil {
		stop()
		fatal(err)
	}
}

func fatal(err error) {
	var verrs validate.Errors
	switch {
	case app.NeedsLogin(err):
		fmt.Fprintln(os.Stderr, "ekthaa: your session has expired, run `ekthaa login`")
	case errors.As(err, &verrs):
		fmt.Fprintln(os.Stderr, "ekthaa: please fix the following:")
		for _, fe := range verrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", fe.Message)
		}
	default:
		fmt.Fprintf(os.Stderr, "ekthaa: %v\n", err)
	}
	os.Exit(1)
}

// Request logs go to stderr only with EKTHAA_VERBOSE set
func discardUnlessVerbose() io.Writer {
	if os.Getenv("EKTHAA_VERBOSE") != "" {
		return os.Stderr
	}
	return io.Discard
}

// prompt reads one line from stdin when value is empty
func (c *cli) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := c.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
