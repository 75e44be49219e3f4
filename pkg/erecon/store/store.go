// Package store defines erecon's LabeledPairStore: a durable log of
// oracle-labeled pairs so an active-learning session survives a restart
// of the oracle loop. It is a small persistence interface with both an
// in-memory and a SQLite-backed implementation.
package store

import (
	"context"

	"github.com/cognicore/erecon/pkg/erecon/model"
)

// LabeledPairStore persists labeled pairs keyed by an active-learning
// session ID. ActiveLearner.Run does not use a store itself; a caller
// can append the pairs Run returns and pass LoadLabeled's result back
// to Run as its seed after a restart.
type LabeledPairStore interface {
	Close() error

	// AppendLabeled durably records newly-labeled pairs for sessionID.
	AppendLabeled(ctx context.Context, sessionID string, pairs []model.LabeledPair) error

	// LoadLabeled returns every labeled pair previously appended for
	// sessionID, in append order. Returns an empty slice (not an error)
	// for an unknown session.
	LoadLabeled(ctx context.Context, sessionID string) ([]model.LabeledPair, error)
}
