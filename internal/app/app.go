package app

import (
	"context"
	goerrors "errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"atm-accounts/internal/config"
	"atm-accounts/internal/domain"
	"atm-accounts/internal/handler"
	"atm-accounts/internal/repository"
	"atm-accounts/internal/service"
)

var (
	loginMenu = []string{"Login", "Create Account", "Quit"}
	mainMenu  = []string{"Check Balance", "Deposit", "Withdraw", "View Transactions", "Logout"}
)

// App is the terminal ATM: it owns the account store and drives the login
// and main menu screens until the user quits or input ends.
type App struct {
	console            *handler.Console
	accountHandler     *handler.AccountHandler
	transactionHandler *handler.TransactionHandler
	session            *domain.Session
	closeStore         func() error
	logger             *slog.Logger
}

// NewApp opens the configured store and wires services and handlers. A
// malformed data file makes it fail.
func NewApp(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	repo, closeStore, err := openRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize services
	accountService := service.NewAccountService(repo, cfg.PINHashCost, logger)
	transactionService := service.NewTransactionService(accountService, logger)

	// Initialize handlers
	console := handler.NewConsole(in, out, colorsEnabled(cfg, out))

	return &App{
		console:            console,
		accountHandler:     handler.NewAccountHandler(accountService, console),
		transactionHandler: handler.NewTransactionHandler(transactionService, console),
		closeStore:         closeStore,
		logger:             logger,
	}, nil
}

func openRepository(cfg *config.Config, logger *slog.Logger) (domain.AccountRepository, func() error, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := repository.OpenPostgres(cfg.GetDBConnectionString(), logger)
		if err != nil {
			return nil, nil, err
		}

		store := repository.NewStore(db, logger)
		if err := store.Migrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	default:
		repo, err := repository.NewFileAccountRepository(cfg.DataFile, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	}
}

func colorsEnabled(cfg *config.Config, out io.Writer) bool {
	if cfg.NoColor {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run shows screens until the user quits, input ends or ctx is cancelled.
// End of input is a normal exit.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("ATM started")

	for {
		if err := ctx.Err(); err != nil {
			a.logger.Info("ATM stopping", "reason", err)
			return nil
		}

		var quit bool
		var err error
		if a.session == nil {
			quit, err = a.loginScreen()
		} else {
			err = a.mainScreen()
		}

		if err != nil {
			if goerrors.Is(err, io.EOF) {
				a.logger.Info("Input closed, ATM stopping")
				return nil
			}
			a.logger.Error("ATM stopped on input error", "error", err)
			return err
		}
		if quit {
			a.logger.Info("ATM stopped by user")
			return nil
		}
	}
}

func (a *App) loginScreen() (bool, error) {
	choice, err := a.console.Menu("ATM System", loginMenu)
	if err != nil {
		return false, err
	}

	switch choice {
	case 1:
		session, err := a.accountHandler.Login()
		if err != nil {
			return false, err
		}
		a.session = session
	case 2:
		return false, a.accountHandler.CreateAccount()
	case 3:
		return true, nil
	}
	return false, nil
}

func (a *App) mainScreen() error {
	choice, err := a.console.Menu("Main Menu", mainMenu)
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		a.transactionHandler.ShowBalance(a.session)
	case 2:
		return a.transactionHandler.Deposit(a.session)
	case 3:
		return a.transactionHandler.Withdraw(a.session)
	case 4:
		a.transactionHandler.ShowTransactions(a.session)
	case 5:
		a.logger.Info("Session closed", "account_number", a.session.AccountNumber, "session_id", a.session.ID)
		a.session = nil
	}
	return nil
}

// Authenticated reports whether a session is open.
func (a *App) Authenticated() bool {
	return a.session != nil
}

// Close releases the store and restores the terminal.
func (a *App) Close() error {
	restoreErr := a.console.Restore()
	if err := a.closeStore(); err != nil {
		return err
	}
	return restoreErr
}
