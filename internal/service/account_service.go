package service

import (
	goerrors "errors"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"atm-accounts/internal/domain"
	"atm-accounts/internal/errors"
)

const AccountCreatedMessage = "Account created successfully!"

type AccountService struct {
	repo    domain.AccountRepository
	pinCost int
	logger  *slog.Logger
}

// NewAccountService wires the account store. pinCost is the bcrypt cost used
// for new PINs; zero means bcrypt.DefaultCost.
func NewAccountService(repo domain.AccountRepository, pinCost int, logger *slog.Logger) *AccountService {
	if pinCost == 0 {
		pinCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AccountService{
		repo:    repo,
		pinCost: pinCost,
		logger:  logger,
	}
}

// CreateAccount stores a new account with a zero balance. An existing
// account number yields errors.ErrDuplicateAccount and is left untouched.
func (s *AccountService) CreateAccount(accountNumber, pin string) (*domain.AccountRecord, error) {
	s.logger.Info("Creating account", "account_number", accountNumber)

	hashedPIN, err := hashPIN(pin, s.pinCost)
	if err != nil {
		s.logger.Error("Failed to hash pin", "account_number", accountNumber, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "Account could not be created.").WithDetails(err.Error())
	}

	account := domain.NewAccountRecord(accountNumber, hashedPIN)
	if err := s.repo.CreateAccount(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created successfully", "account_number", accountNumber)
	return account, nil
}

// Authenticate opens a session when the account exists and pin matches.
// Unknown accounts and wrong PINs produce the same error.
func (s *AccountService) Authenticate(accountNumber, pin string) (*domain.Session, error) {
	account, err := s.repo.GetAccount(accountNumber)
	if err != nil {
		if goerrors.Is(err, errors.ErrAccountNotFound) {
			s.logger.Warn("Authentication failed", "account_number", accountNumber)
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !verifyPIN(account.PIN, pin) {
		s.logger.Warn("Authentication failed", "account_number", accountNumber)
		return nil, errors.ErrInvalidCredentials
	}

	session := domain.NewSession(account)
	s.logger.Info("Session opened", "account_number", accountNumber, "session_id", session.ID)
	return session, nil
}

// UpdateAccount persists the session's balance and transaction log.
func (s *AccountService) UpdateAccount(session *domain.Session) error {
	if err := s.repo.UpdateAccount(session.Record()); err != nil {
		s.logger.Error("Failed to update account",
			"account_number", session.AccountNumber,
			"session_id", session.ID,
			"error", err)
		return err
	}
	return nil
}
