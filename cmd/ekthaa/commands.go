package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekthaa/customer-client/internal/client"
	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/validate"
)

// parse parses flags that may be interleaved with positional arguments and
// returns the positional ones.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func want(name string, positional []string, names ...string) error {
	if len(positional) != len(names) {
		return fmt.Errorf("usage: ekthaa %s <%s>", name, strings.Join(names, "> <"))
	}
	return nil
}

func filterFlags(fs *flag.FlagSet) (*string, *string) {
	typ := fs.String("type", "", "only credit or payment entries")
	query := fs.String("q", "", "search names and notes")
	return typ, query
}

func newFilter(typ, query string) (ledger.Filter, error) {
	f := ledger.Filter{Type: models.TransactionType(typ), Query: query}
	if typ != "" && !f.Type.Valid() {
		return f, fmt.Errorf("-type must be credit or payment, got %q", typ)
	}
	return f, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Printf("Saved %s (%d bytes)\n", path, len(data))
	return nil
}

// Account commands
func runLogin(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	phone := fs.String("phone", "", "10 digit phone number")
	password := fs.String("password", "", "password")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var err error
	if *phone, err = c.prompt("Phone number", *phone); err != nil {
		return err
	}
	if *password, err = c.prompt("Password", *password); err != nil {
		return err
	}

	user, err := c.app.Login(ctx, validate.LoginForm{Phone: *phone, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", user.Name)
	return nil
}

func runRegister(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "10 digit phone number")
	password := fs.String("password", "", "password, at least 6 characters")
	confirm := fs.String("confirm", "", "password again")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var err error
	if *password, err = c.prompt("Password", *password); err != nil {
		return err
	}
	if *confirm, err = c.prompt("Confirm password", *confirm); err != nil {
		return err
	}

	resp, err := c.app.Register(ctx, validate.RegisterForm{
		Name:            *name,
		Phone:           *phone,
		Password:        *password,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}
	if resp.Token != "" && resp.User != nil {
		fmt.Printf("Welcome, %s. You are signed in.\n", resp.User.Name)
		return nil
	}
	fmt.Println("Account created. Run `ekthaa login` to sign in.")
	return nil
}

func runLogout(ctx context.Context, c *cli, args []string) error {
	if err := c.app.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func runPasswd(ctx context.Context, c *cli, args []string) error {
	var form validate.ChangePasswordForm
	var err error
	if form.CurrentPassword, err = c.prompt("Current password", ""); err != nil {
		return err
	}
	if form.NewPassword, err = c.prompt("New password", ""); err != nil {
		return err
	}
	if form.ConfirmPassword, err = c.prompt("Confirm new password", ""); err != nil {
		return err
	}

	if err := c.app.ChangePassword(ctx, form); err != nil {
		return err
	}
	fmt.Println("Password changed")
	return nil
}

func runProfile(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	name := fs.String("name", "", "name")
	email := fs.String("email", "", "email")
	address := fs.String("address", "", "address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state")
	pincode := fs.String("pincode", "", "6 digit pincode")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	user, err := c.app.Profile(ctx)
	if err != nil {
		return err
	}

	if fs.NFlag() > 0 {
		form := validate.ProfileForm{
			Name: user.Name, Email: user.Email, Address: user.Address,
			City: user.City, State: user.State, Pincode: user.Pincode,
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				form.Name = *name
			case "email":
				form.Email = *email
			case "address":
				form.Address = *address
			case "city":
				form.City = *city
			case "state":
				form.State = *state
			case "pincode":
				form.Pincode = *pincode
			}
		})
		if user, err = c.app.UpdateProfile(ctx, form); err != nil {
			return err
		}
		fmt.Println("Profile updated")
	}

	printProfile(os.Stdout, user)
	return nil
}

func runTheme(ctx context.Context, c *cli, args []string) error {
	theme, err := c.app.ToggleTheme()
	if err != nil {
		return err
	}
	fmt.Printf("Theme: %s\n", theme)
	return nil
}

// Ledger commands
func runDashboard(ctx context.Context, c *cli, args []string) error {
	d, err := c.app.Dashboard(ctx)
	if err != nil {
		return err
	}
	printDashboard(os.Stdout, d)
	return nil
}

func runBusinesses(ctx context.Context, c *cli, args []string) error {
	businesses, err := c.app.Businesses(ctx)
	if err != nil {
		return err
	}
	if len(businesses) == 0 {
		fmt.Println("No businesses yet. Ask a shop for its access PIN and run `ekthaa connect <pin>`.")
		return nil
	}
	printBusinesses(os.Stdout, businesses)
	return nil
}

func runBusiness(ctx context.Context, c *cli, args []string) error {
	if err := want(c.name, args, "business-id"); err != nil {
		return err
	}
	profile, err := c.app.BusinessProfile(ctx, args[0])
	if err != nil {
		return err
	}
	printBusinessProfile(os.Stdout, profile)
	return nil
}

func runConnect(ctx context.Context, c *cli, args []string) error {
	if err := want(c.name, args, "pin"); err != nil {
		return err
	}
	business, err := c.app.Connect(ctx, validate.ConnectForm{AccessPIN: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("Connected to %s (%s)\n", business.Name, business.ID)
	return nil
}

func runLedger(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	typ, query := filterFlags(fs)
	pdfPath := fs.String("pdf", "", "also save the statement as a PDF")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := want(c.name, positional, "business-id"); err != nil {
		return err
	}
	f, err := newFilter(*typ, *query)
	if err != nil {
		return err
	}

	screen, err := c.app.LoadLedger(ctx, positional[0], f)
	if err != nil {
		return err
	}
	fmt.Println(screen.Business.Name)
	printView(os.Stdout, screen.View, true)

	if *pdfPath == "" {
		return nil
	}
	pdf, err := c.app.Statement(positional[0], f)
	if err != nil {
		return err
	}
	return writeFile(*pdfPath, pdf)
}

func runTransactions(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	typ, query := filterFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	f, err := newFilter(*typ, *query)
	if err != nil {
		return err
	}

	view, err := c.app.LoadTransactions(ctx, f)
	if err != nil {
		return err
	}
	printView(os.Stdout, view, false)
	return nil
}

func runRecord(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	notes := fs.String("notes", "", "note shown in the ledger")
	receiptPath := fs.String("receipt", "", "photo of the receipt")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := want(c.name, positional, "business-id", "amount"); err != nil {
		return err
	}

	typ := models.Credit
	if c.name == "pay" {
		typ = models.Payment
	}

	var receipt *client.Attachment
	if *receiptPath != "" {
		file, err := os.Open(*receiptPath)
		if err != nil {
			return fmt.Errorf("error opening receipt: %w", err)
		}
		defer file.Close()
		receipt = &client.Attachment{FileName: filepath.Base(*receiptPath), Reader: file}
	}

	txn, err := c.app.RecordTransaction(ctx, validate.TransactionForm{
		BusinessID:      positional[0],
		Amount:          positional[1],
		TransactionType: string(typ),
		Notes:           *notes,
	}, receipt)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s of %s\n", txn.TransactionType, invoice.FormatCurrency(txn.Amount.Decimal))

	if screen, err := c.app.LedgerView(positional[0], ledger.Filter{}); err == nil {
		s := screen.View.Summary
		fmt.Printf("%s %s\n", s.Label(), invoice.FormatCurrency(s.Balance.Abs()))
	}
	return nil
}

// Catalog and document commands
func runOffers(ctx context.Context, c *cli, args []string) error {
	offers, err := c.app.Offers(ctx)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		fmt.Println("No offers right now")
		return nil
	}
	printOffers(os.Stdout, offers)
	return nil
}

func runProducts(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	query := fs.String("q", "", "search text")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	products, err := c.app.Products(ctx, *query)
	if err != nil {
		return err
	}
	printProducts(os.Stdout, products)
	return nil
}

func runInvoice(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	in := fs.String("file", "", "invoice form as JSON")
	out := fs.String("out", "invoice.pdf", "where to save the PDF")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("usage: ekthaa invoice -file invoice.json [-out invoice.pdf]")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("error reading invoice: %w", err)
	}
	var inv invoice.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return fmt.Errorf("error parsing invoice: %w", err)
	}

	printTotals(os.Stdout, inv.Totals().Rounded())
	blob, err := c.app.GenerateInvoice(ctx, inv)
	if err != nil {
		return err
	}
	return writeFile(*out, blob.Data)
}

func runQR(ctx context.Context, c *cli, args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	out := fs.String("out", "", "where to save the image (default qr.<ext>)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	blob, err := c.app.QRCode(ctx)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = "qr" + extension(blob.ContentType)
	}
	return writeFile(path, blob.Data)
}

func extension(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "jpeg"):
		return ".jpg"
	case strings.Contains(contentType, "svg"):
		return ".svg"
	}
	return ".bin"
}
