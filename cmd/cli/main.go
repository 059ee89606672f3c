package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/fatih/color"
)

const usage = `Usage: cli [-env file] <command> [arguments]
Commands:
  create   <account>
  get      <account>
  deposit  <account> <amount>
  withdraw <account> <amount>
  transfer <source> <target> <amount>
  history  <account> [limit]

State persists across runs only with STORE_DRIVER=postgres; the default
memory store starts empty on every run.`

const memoryStoreNotice = "Using the in-memory store: changes are lost when this command exits. Set STORE_DRIVER=postgres to keep them."

var (
	errUsage = errors.New("invalid arguments")

	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed, color.Bold)
	muted   = color.New(color.Faint)
)

func main() {
	envFile := flag.String("env", ".env", "environment file to load")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		_, _ = failure.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if notice := storeNotice(cfg); notice != "" {
		_, _ = muted.Fprintln(os.Stderr, notice)
	}
	deps, closeFn, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		_, _ = failure.Fprintln(os.Stderr, "Failed to initialize dependencies:", err)
		os.Exit(1)
	}

	err = run(context.Background(), app.New(deps), flag.Args(), color.Output)
	if cerr := closeFn(); cerr != nil {
		_, _ = muted.Fprintln(os.Stderr, "close:", cerr)
	}
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		_, _ = failure.Fprintln(os.Stderr, "Error:", err)
		if domain.Retryable(err) {
			_, _ = muted.Fprintln(os.Stderr, "The operation may be retried.")
		}
		os.Exit(1)
	}
}

// storeNotice warns that a memory store keeps nothing between runs.
func storeNotice(cfg *config.App) string {
	if cfg.Store == nil || cfg.Store.Driver == config.DriverMemory {
		return memoryStoreNotice
	}
	return ""
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	svc := a.AccountService
	cmd, args := args[0], args[1:]
	switch cmd {
	case "create":
		if len(args) != 1 {
			return errUsage
		}
		acc, err := svc.Create(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = success.Fprintf(out, "Account %s created. Balance: %s\n", acc.Number, acc.Balance)
		return err
	case "get":
		if len(args) != 1 {
			return errUsage
		}
		acc, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Account %s balance: %s\n", acc.Number, acc.Balance)
		return err
	case "deposit", "withdraw":
		if len(args) != 2 {
			return errUsage
		}
		amount, err := money.Parse(args[1])
		if err != nil {
			return err
		}
		if cmd == "deposit" {
			acc, err := svc.Deposit(ctx, args[0], amount)
			if err != nil {
				return err
			}
			_, err = success.Fprintf(out, "Deposited %s to account %s. New balance: %s\n", amount, acc.Number, acc.Balance)
			return err
		}
		acc, err := svc.Withdraw(ctx, args[0], amount)
		if err != nil {
			return err
		}
		_, err = success.Fprintf(out, "Withdrew %s from account %s. New balance: %s\n", amount, acc.Number, acc.Balance)
		return err
	case "transfer":
		if len(args) != 3 {
			return errUsage
		}
		amount, err := money.Parse(args[2])
		if err != nil {
			return err
		}
		src, err := svc.Transfer(ctx, args[0], args[1], amount)
		if err != nil {
			return err
		}
		_, err = success.Fprintf(out, "Transferred %s from %s to %s. Source balance: %s\n",
			amount, src.Number, args[1], src.Balance)
		return err
	case "history":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		limit := 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return fmt.Errorf("%w: limit %q", errUsage, args[1])
			}
			limit = n
		}
		txs, err := a.LedgerService.History(ctx, args[0], limit)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			_, err = muted.Fprintln(out, "No transactions.")
			return err
		}
		for _, tx := range txs {
			if _, err := fmt.Fprintf(out, "#%d %s %s -> %s %s\n",
				tx.ID, tx.Timestamp.Format("2006-01-02 15:04:05"), tx.DebitNumber, tx.CreditNumber, tx.Amount); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}
