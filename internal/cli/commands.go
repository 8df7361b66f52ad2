package cli

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vadiminshakov/renexcli/internal/domain"
)

// ErrInvalidInvocation is returned for unknown commands and wrong arguments.
var ErrInvalidInvocation = errors.New("invalid invocation")

const usageHint = "run 'renex help' for the list of commands"

func (a *App) newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "renex",
		Short:         "Trade on RenEx from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.logger = a.newLogger(verbose)
		},
		RunE: func(*cobra.Command, []string) error {
			return errors.Wrap(ErrInvalidInvocation, "no command given, "+usageHint)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(ErrInvalidInvocation, err.Error())
	})

	root.AddCommand(
		a.newLoadCommand(),
		a.newEncryptCommand(),
		a.newBalanceCommand(),
		a.newMoveCommand(domain.BalanceActionDeposit, "Deposit funds from the wallet into the venue"),
		a.newMoveCommand(domain.BalanceActionWithdraw, "Withdraw funds from the venue into the wallet"),
		a.newOrderCommand(domain.SideBuy),
		a.newOrderCommand(domain.SideSell),
		a.newCancelCommand(),
		a.newListCommand(),
		a.newConfigureCommand(),
	)

	return root
}

func (a *App) newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Import an existing encrypted keystore file",
		Args:  exactArgs("path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.load(args[0])
		},
	}
}

func (a *App) newEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <hexPrivateKey>",
		Short: "Encrypt a private key with a passphrase and store it",
		Args:  exactArgs("hexPrivateKey"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.encrypt(args[0])
		},
	}
}

func (a *App) newBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <token>",
		Short: "Show free, used and non-deposited balance of a token",
		Long:  "Show free, used and non-deposited balance of a token.\n\nSupported tokens: " + tokenCodes(false),
		Args:  exactArgs("token"),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := domain.LookupToken(args[0])
			if err != nil {
				return err
			}
			return a.balance(cmd.Context(), token)
		},
	}
}

func (a *App) newMoveCommand(kind domain.BalanceActionType, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <amount> <token>",
		Short: short,
		Long:  short + ".\n\nSupported tokens: " + tokenCodes(false),
		Args:  exactArgs("amount", "token"),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			token, err := domain.LookupToken(args[1])
			if err != nil {
				return err
			}
			return a.moveFunds(cmd.Context(), kind, amount, token)
		},
	}
}

func (a *App) newOrderCommand(side domain.Side) *cobra.Command {
	short := "Open a " + side.String() + " order for a token against " + domain.QuoteCurrency
	return &cobra.Command{
		Use:   side.String() + " <token>",
		Short: short,
		Long:  short + ".\n\nTradable tokens: " + tokenCodes(true),
		Args:  exactArgs("token"),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := domain.LookupTradableToken(args[0])
			if err != nil {
				return err
			}
			return a.openOrder(cmd.Context(), side, token)
		},
	}
}

func (a *App) newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <orderId>",
		Short: "Cancel an open order",
		Args:  exactArgs("orderId"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cancelOrder(cmd.Context(), strings.TrimSpace(args[0]))
		},
	}
}

func (a *App) newListCommand() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders or balance actions",
		Args:  noArgs,
		RunE: func(*cobra.Command, []string) error {
			return errors.Wrap(ErrInvalidInvocation, "list expects one of: orders, balance")
		},
	}
	list.AddCommand(
		&cobra.Command{
			Use:   "orders",
			Short: "List the trader's orders",
			Args:  exactArgs(),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.listOrders(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "balance",
			Short: "List deposits and withdrawals",
			Args:  exactArgs(),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.listBalanceActions(cmd.Context())
			},
		},
	)
	return list
}

func (a *App) newConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Choose the network, the RPC base url and order rounding",
		Args:  exactArgs(),
		RunE: func(*cobra.Command, []string) error {
			return a.configure()
		},
	}
}

// exactArgs requires one positional argument per name.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return errors.Wrapf(ErrInvalidInvocation, "usage: %s", cmd.UseLine())
		}
		return nil
	}
}

// noArgs rejects anything that did not resolve to a subcommand.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Wrapf(ErrInvalidInvocation, "unknown command %q for %q, %s", args[0], cmd.CommandPath(), usageHint)
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidInvocation, "amount %q is not a number", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrInvalidInvocation, "amount must be greater than zero, got %s", s)
	}
	return amount, nil
}

// tokenCodes lists the registry codes, optionally only the tradable ones.
func tokenCodes(tradableOnly bool) string {
	var codes []string
	for _, t := range domain.Tokens() {
		if tradableOnly && !t.Tradable {
			continue
		}
		codes = append(codes, t.Code)
	}
	return strings.Join(codes, ", ")
}
