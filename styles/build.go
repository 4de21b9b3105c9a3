package styles

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rstyle/breakpoints"
	"rstyle/cache"
	"rstyle/config"
	"rstyle/generate"
	"rstyle/schema"
	"rstyle/store"
	"rstyle/validate"
)

// Open builds service from configuration using SQLite rule store.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {
	st, err := store.OpenSQLite(ctx, cfg.Store.Path, log)
	if err != nil {
		return nil, err
	}
	svc, err := FromConfig(cfg, st, log)
	if err != nil {
		return nil, multierr.Append(err, st.Close())
	}
	return svc, nil
}

// FromConfig builds service around already opened store.
func FromConfig(cfg *config.Config, st store.Store, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}

	props, err := schema.New()
	if err != nil {
		return nil, fmt.Errorf("unable to build property schema: %w", err)
	}
	bps, err := breakpoints.New(append(breakpoints.Defaults(), cfg.Definitions()...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to register breakpoints: %w", err)
	}

	validator := validate.New(props, bps, cfg.Limits(), log)
	opts := []generate.Option{
		generate.WithHelperPrefix(cfg.Engine.HelperPrefix),
		generate.WithVerification(cfg.Engine.VerifyOutput),
		generate.WithSafety(validator.Safety()),
	}
	if len(cfg.Engine.ProtectedSelectors) > 0 {
		opts = append(opts, generate.WithProtectedSelectors(cfg.Engine.ProtectedSelectors...))
	}

	return New(Components{
		Store:       st,
		Schema:      props,
		Breakpoints: bps,
		Validator:   validator,
		Engine:      generate.New(props, bps, log, opts...),
		Cache:       cache.New(log, cache.WithTTL(cfg.Cache.TTL)),
	}, log)
}
