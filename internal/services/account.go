package services

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/metrics"
	model "github.com/klau55/clicker-mobile-app/internal/models"
)

const (
	MsgCredentialsRequired = "Username and password are required"
	MsgUsernameLength      = "Username must be between 3 and 20 characters"
	MsgPasswordLength      = "Password must be at least 6 characters long"
	MsgPasswordTooLong     = "Password must be at most 72 bytes long"
	MsgInvalidCredentials  = "Invalid username or password"
	MsgUsernameParam       = "Username parameter is required"
	MsgUserIDRequired      = "User ID is required"
)

// PasswordPolicy holds the credential rules checked at registration.
// Username lengths are counted in runes.
type PasswordPolicy struct {
	MinUsername int
	MaxUsername int
	MinPassword int
}

var DefaultPolicy = PasswordPolicy{MinUsername: 3, MaxUsername: 20, MinPassword: 6}

// Validate returns an errors.NotValid error carrying the first broken rule.
func (p PasswordPolicy) Validate(username, password string) error {
	if username == "" || password == "" {
		return errors.NewNotValid(nil, MsgCredentialsRequired)
	}
	if n := utf8.RuneCountInString(username); n < p.MinUsername || n > p.MaxUsername {
		return errors.NewNotValid(nil, MsgUsernameLength)
	}
	if utf8.RuneCountInString(password) < p.MinPassword {
		return errors.NewNotValid(nil, MsgPasswordLength)
	}
	// bcrypt only looks at the first 72 bytes.
	if len(password) > 72 {
		return errors.NewNotValid(nil, MsgPasswordTooLong)
	}
	return nil
}

type AccountService struct {
	store      AccountStore
	policy     PasswordPolicy
	bcryptCost int
	// dummyHash is compared against for unknown usernames so that a miss costs
	// as much as a wrong password.
	dummyHash []byte
}

// NewAccountService hashes with bcryptCost and checks registrations against policy.
// It fails only when bcryptCost is out of range.
func NewAccountService(store AccountStore, policy PasswordPolicy, bcryptCost int) (*AccountService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("clicker-dummy-password"), bcryptCost)
	if err != nil {
		return nil, errors.Annotatef(err, "bcrypt cost %d", bcryptCost)
	}
	return &AccountService{
		store:      store,
		policy:     policy,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Register validates the credentials and creates the account. A taken username
// yields an errors.AlreadyExists error.
func (s *AccountService) Register(ctx context.Context, username, password string) (*model.RegisteredUser, error) {
	if err := s.policy.Validate(username, password); err != nil {
		metrics.RecordRegistration(metrics.ResultInvalid)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		metrics.RecordRegistration(metrics.ResultError)
		return nil, errors.Annotate(err, "could not hash password")
	}

	user, err := s.store.CreateUser(ctx, username, string(hash))
	switch {
	case errors.Is(err, errors.AlreadyExists):
		metrics.RecordRegistration(metrics.ResultConflict)
		return nil, errors.Trace(err)
	case err != nil:
		metrics.RecordRegistration(metrics.ResultError)
		return nil, errors.Annotatef(err, "register %q", username)
	}

	metrics.RecordRegistration(metrics.ResultSuccess)
	logger.Success("User registered: %s (id %d)", user.Username, user.ID)
	return &model.RegisteredUser{
		ID:        user.ID,
		Username:  user.Username,
		TotalTaps: user.TotalTaps,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login checks the credentials and records the login. Unknown usernames and
// wrong passwords produce the same errors.Unauthorized error.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.LoggedInUser, error) {
	if username == "" || password == "" {
		metrics.RecordLogin(metrics.ResultInvalid)
		return nil, errors.NewNotValid(nil, MsgCredentialsRequired)
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, errors.NotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		metrics.RecordLogin(metrics.ResultDenied)
		return nil, errors.NewUnauthorized(nil, MsgInvalidCredentials)
	case err != nil:
		metrics.RecordLogin(metrics.ResultError)
		return nil, errors.Annotatef(err, "login %q", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLogin(metrics.ResultDenied)
		return nil, errors.NewUnauthorized(nil, MsgInvalidCredentials)
	}

	stat, err := s.store.RecordLogin(ctx, user.ID)
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, errors.Annotatef(err, "record login for %q", username)
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	logger.Debug("User logged in: %s (login #%d)", user.Username, stat.LoginCount)
	return &model.LoggedInUser{
		ID:         user.ID,
		Username:   user.Username,
		TotalTaps:  user.TotalTaps,
		LoginCount: stat.LoginCount,
		CreatedAt:  user.CreatedAt,
	}, nil
}

// UsernameExists backs the availability check of the sign-up form.
func (s *AccountService) UsernameExists(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, errors.NewNotValid(nil, MsgUsernameParam)
	}
	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return false, errors.Trace(err)
	}
	return exists, nil
}

// UserStats looks the account up by its id as given in the URL.
func (s *AccountService) UserStats(ctx context.Context, rawID string) (*model.UserStats, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.NewNotValid(nil, MsgUserIDRequired)
	}
	stats, err := s.store.GetUserStats(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return stats, nil
}
