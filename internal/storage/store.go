package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamo   = "dynamodb"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is a backend as handed to its owner by OpenStore: snapshot
// load/save keyed by user id, plus Close. Sessions only see the load/save
// half (engine.Store).
type Store interface {
	Load(ctx context.Context, userID string) (*Snapshot, error)
	Save(ctx context.Context, userID string, s *Snapshot) error
	Close() error
}

type Options struct {
	Driver      string
	SQLitePath  string
	PostgresURL string
	DynamoTable string
	AWSRegion   string
}

// OpenStore opens the backend named by opts.Driver. An empty driver means sqlite.
func OpenStore(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		path := opts.SQLitePath
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		db, err := Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSnapshotRepo(db), nil
	case DriverPostgres:
		if opts.PostgresURL == "" {
			return nil, errors.New("postgres url is required")
		}
		return ConnectPostgres(ctx, opts.PostgresURL)
	case DriverDynamo:
		client, err := NewDynamoClient(ctx, opts.AWSRegion)
		if err != nil {
			return nil, err
		}
		return NewDynamoStore(client, opts.DynamoTable), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
