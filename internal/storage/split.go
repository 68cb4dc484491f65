package storage

import (
	"context"
	"errors"
)

// SplitRepository keeps the bearer token in a secrets backend and every
// other key in a general backend
type SplitRepository struct {
	secrets Repository
	rest    Repository
}

// NewSplitRepository routes KeyToken to secrets and everything else to rest
func NewSplitRepository(secrets, rest Repository) *SplitRepository {
	return &SplitRepository{secrets: secrets, rest: rest}
}

func (s *SplitRepository) route(key Key) Repository {
	if key == KeyToken {
		return s.secrets
	}
	return s.rest
}

func (s *SplitRepository) Get(ctx context.Context, key Key) (string, error) {
	return s.route(key).Get(ctx, key)
}

func (s *SplitRepository) Set(ctx context.Context, key Key, value string) error {
	return s.route(key).Set(ctx, key, value)
}

func (s *SplitRepository) Clear(ctx context.Context, keys ...Key) error {
	var secretKeys, restKeys []Key
	for _, key := range keys {
		if key == KeyToken {
			secretKeys = append(secretKeys, key)
		} else {
			restKeys = append(restKeys, key)
		}
	}

	var errs []error
	if len(secretKeys) > 0 {
		errs = append(errs, s.secrets.Clear(ctx, secretKeys...))
	}
	if len(restKeys) > 0 {
		errs = append(errs, s.rest.Clear(ctx, restKeys...))
	}
	return errors.Join(errs...)
}

func (s *SplitRepository) Close() error {
	return errors.Join(s.secrets.Close(), s.rest.Close())
}
