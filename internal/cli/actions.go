package cli

import (
	"context"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/renexcli/config"
	"github.com/vadiminshakov/renexcli/internal/domain"
	"github.com/vadiminshakov/renexcli/internal/keystore"
	"github.com/vadiminshakov/renexcli/internal/prompt"
	"github.com/vadiminshakov/renexcli/internal/render"
	"github.com/vadiminshakov/renexcli/internal/renex"
	"github.com/vadiminshakov/renexcli/internal/session"
	"github.com/vadiminshakov/renexcli/internal/setup"
)

func (a *App) load(src string) error {
	if err := a.settings(); err != nil {
		return err
	}
	store, err := keystore.NewStore(a.cfg.DataDir)
	if err != nil {
		return err
	}
	if err := store.Import(src); err != nil {
		return err
	}
	return a.printer.Success("Keystore loaded into %s", store.Path())
}

func (a *App) encrypt(rawKey string) error {
	if _, err := keystore.ParsePrivateKey(rawKey); err != nil {
		return err
	}

	if err := a.settings(); err != nil {
		return err
	}

	passphrase, err := prompt.CollectNew(a.asker)
	if err != nil {
		return err
	}

	blob, err := a.unlocker.Encrypt(rawKey, passphrase)
	if err != nil {
		return err
	}

	store, err := keystore.NewStore(a.cfg.DataDir)
	if err != nil {
		return err
	}
	if err := store.Save(blob); err != nil {
		return err
	}
	return a.printer.Success("Keystore saved to %s", store.Path())
}

func (a *App) configure() error {
	if err := a.settings(); err != nil {
		if !errors.Is(err, config.ErrInvalidSettings) {
			return err
		}
		a.logger.Warn("ignoring unreadable settings file", zap.Error(err))
		if a.cfg, err = config.Defaults(); err != nil {
			return err
		}
	}

	tmp, err := setup.Run(a.asker, a.cfg)
	if err != nil {
		return err
	}
	if err := config.Save(a.cfg.DataDir, tmp); err != nil {
		return err
	}
	return a.printer.Success("Settings saved to %s", filepath.Join(a.cfg.DataDir, config.FileName))
}

func (a *App) balance(ctx context.Context, token domain.Token) error {
	address, err := a.traderAddress()
	if err != nil {
		return err
	}

	return a.readOnly(ctx, address, func(ctx context.Context, venue renex.SDK) error {
		return a.showBalance(ctx, venue, token)
	})
}

func (a *App) moveFunds(ctx context.Context, kind domain.BalanceActionType, amount decimal.Decimal, token domain.Token) error {
	signer, err := a.unlock()
	if err != nil {
		return err
	}

	return a.signing(ctx, signer, func(ctx context.Context, venue renex.SDK) error {
		submit := venue.Deposit
		if kind == domain.BalanceActionWithdraw {
			submit = venue.Withdraw
		}

		a.logger.Debug("submitting balance action",
			zap.String("action", string(kind)),
			zap.String("token", token.Code),
			zap.String("amount", amount.String()))

		txHash, err := submit(ctx, token, amount)
		if err != nil {
			return err
		}
		if err := a.printer.Success("%s of %s %s submitted, tx %s", kind, amount.String(), token.Code, txHash); err != nil {
			return err
		}

		// the venue may not have seen the transaction yet
		return a.showBalance(ctx, venue, token)
	})
}

func (a *App) openOrder(ctx context.Context, side domain.Side, token domain.Token) error {
	price, volume, err := prompt.OrderInputs(a.asker)
	if err != nil {
		return err
	}

	order, err := domain.NewOrderRequest(token, side, price, volume)
	if err != nil {
		return err
	}

	signer, err := a.unlock()
	if err != nil {
		return err
	}

	return a.signing(ctx, signer, func(ctx context.Context, venue renex.SDK) error {
		opened, err := venue.OpenOrder(ctx, order)
		if err != nil {
			return err
		}
		return a.printer.Success("Order %s opened", opened.ID)
	})
}

func (a *App) cancelOrder(ctx context.Context, orderID string) error {
	signer, err := a.unlock()
	if err != nil {
		return err
	}

	return a.signing(ctx, signer, func(ctx context.Context, venue renex.SDK) error {
		if err := venue.CancelOrder(ctx, orderID); err != nil {
			return err
		}
		return a.printer.Success("Order %s canceled", orderID)
	})
}

func (a *App) listOrders(ctx context.Context) error {
	address, err := a.traderAddress()
	if err != nil {
		return err
	}

	return a.readOnly(ctx, address, func(ctx context.Context, venue renex.SDK) error {
		orders, err := venue.FetchTraderOrders(ctx, true)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return a.printer.Print(render.Line{Text: "No orders"})
		}
		return a.printer.Print(render.OrderLines(orders)...)
	})
}

func (a *App) listBalanceActions(ctx context.Context) error {
	address, err := a.traderAddress()
	if err != nil {
		return err
	}

	return a.readOnly(ctx, address, func(ctx context.Context, venue renex.SDK) error {
		actions, err := venue.FetchBalanceActions(ctx, true)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			return a.printer.Print(render.Line{Text: "No deposits or withdrawals"})
		}
		return a.printer.Print(render.BalanceActionLines(actions, a.now())...)
	})
}

func (a *App) showBalance(ctx context.Context, venue renex.SDK, token domain.Token) error {
	balances, err := venue.FetchBalances(ctx, []domain.Token{token})
	if err != nil {
		return err
	}
	balance, ok := balances[token.Code]
	if !ok {
		return errors.Wrapf(renex.ErrSDKOperation, "no balance reported for %s", token.Code)
	}
	return a.printer.Print(render.BalanceLines(token.Code, balance)...)
}

// traderAddress reads the address recorded in the keystore for read-only sessions.
func (a *App) traderAddress() (common.Address, error) {
	if err := a.settings(); err != nil {
		return common.Address{}, err
	}
	store, err := keystore.NewStore(a.cfg.DataDir)
	if err != nil {
		return common.Address{}, err
	}
	return store.Address()
}

// unlock asks for the passphrase and decrypts the stored keystore.
func (a *App) unlock() (*keystore.Signer, error) {
	if err := a.settings(); err != nil {
		return nil, err
	}
	store, err := keystore.NewStore(a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	blob, err := store.Load()
	if err != nil {
		return nil, err
	}

	passphrase, err := prompt.CollectExisting(a.asker)
	if err != nil {
		return nil, err
	}

	signer, err := a.unlocker.Decrypt(blob, passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "unlock %s", store.Path())
	}
	a.logger.Debug("keystore unlocked", zap.String("trader", signer.Address.Hex()))
	return signer, nil
}

func (a *App) readOnly(ctx context.Context, address common.Address, fn func(context.Context, renex.SDK) error) error {
	cfg := a.sessionConfig(nil)
	cfg.Address = address
	return a.run(ctx, cfg, fn)
}

func (a *App) signing(ctx context.Context, signer *keystore.Signer, fn func(context.Context, renex.SDK) error) error {
	return a.run(ctx, a.sessionConfig(signer), fn)
}

func (a *App) run(ctx context.Context, cfg session.Config, fn func(context.Context, renex.SDK) error) error {
	return session.Run(ctx, cfg, func(ctx context.Context, s *session.Session) error {
		venue, err := s.Venue()
		if err != nil {
			return err
		}
		return fn(ctx, venue)
	}, a.sessionOptions()...)
}
