package services

import (
	"context"

	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/metrics"
	model "github.com/klau55/clicker-mobile-app/internal/models"
)

const MsgUsernameRequired = "Username is required"

type TapService struct {
	store TapStore
}

// NewTapService builds a TapService on top of store.
func NewTapService(store TapStore) *TapService {
	return &TapService{store: store}
}

// Tap adds one to the user's counter. Unknown users yield errors.NotFound and
// leave no activity behind.
func (s *TapService) Tap(ctx context.Context, username string) (*model.TapResult, error) {
	if username == "" {
		return nil, errors.NewNotValid(nil, MsgUsernameRequired)
	}

	result, err := s.store.IncrementTaps(ctx, username)
	if err != nil {
		return nil, errors.Trace(err)
	}

	metrics.RecordTap()
	return result, nil
}
