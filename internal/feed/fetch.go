// Package feed retrieves the remote CSV extracts, caches them on disk and
// loads them into typed records.
package feed

import (
	"context"
	"errors"
)

// Outcome classifies one fetch attempt.
type Outcome int

const (
	// OutcomeCached means the local cache file already existed; the remote
	// server was not contacted.
	OutcomeCached Outcome = iota
	// OutcomeDownloaded means the file was transferred and cached.
	OutcomeDownloaded
	// OutcomeNotFound means the remote server has no such file.
	OutcomeNotFound
	// OutcomeTransferError means the transfer failed for any other reason;
	// the accompanying error carries the detail.
	OutcomeTransferError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTransferError:
		return "transfer_error"
	}
	return "unknown"
}

// ErrMissingReference marks a run that cannot proceed because a required
// reference table (shops for a city, or the global loss-type table) could
// not be loaded.
var ErrMissingReference = errors.New("reference table unavailable")

// ErrUnavailable marks a run that never got off the ground because the
// feed server connection could not be established.
var ErrUnavailable = errors.New("feed server connection failed")

// Fetcher is the cache/fetch boundary the loader depends on. Implementations
// must short-circuit on an existing local file without contacting the remote.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath, localPath string) (Outcome, error)
}

// Connection is one live session against the remote server.
type Connection interface {
	Fetcher
	Quit() error
}

// Connector opens a session per report run. A connect failure is fatal for
// the whole run.
type Connector interface {
	Connect(ctx context.Context) (Connection, error)
}
