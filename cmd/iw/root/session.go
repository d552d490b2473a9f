package root

import (
	"context"

	"illitworld/internal/auth"
	"illitworld/internal/engine"
	"illitworld/internal/storage"
)

func rules() engine.Rules {
	return engine.Rules{
		XPPerLevel:      cfg.Progression.XPPerLevel,
		RewardThreshold: cfg.Progression.RewardThreshold,
	}
}

func openStore(ctx context.Context) (storage.Store, error) {
	return storage.OpenStore(ctx, cfg.StoreOptions())
}

// openSession opens the configured store and signs in the locally
// remembered user, if any. Without one the session stays in guest mode.
// cleanup waits for pending saves before closing the store.
func openSession(ctx context.Context) (*engine.Session, func(), error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess := engine.NewSession(engine.Options{Store: store, Logger: logger, Rules: rules()})

	u, err := auth.NewLocalProvider(cfg.SessionPath()).Current(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if u != nil {
		sess.SignIn(ctx, u.ID)
	}

	cleanup := func() {
		sess.Wait()
		_ = store.Close()
	}
	return sess, cleanup, nil
}
