package directory

import (
	"context"
	"time"

	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/models"
)

// Lookup result labels
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

var _ core.UserDirectory = (*InstrumentedDirectory)(nil)

// InstrumentedDirectory records lookup latency and outcome of another
// directory.
type InstrumentedDirectory struct {
	next    core.UserDirectory
	metrics core.Recorder
}

// NewInstrumentedDirectory wraps next with metrics.
func NewInstrumentedDirectory(next core.UserDirectory, metrics core.Recorder) *InstrumentedDirectory {
	return &InstrumentedDirectory{next: next, metrics: metrics}
}

func (d *InstrumentedDirectory) FindByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	start := time.Now()
	user, err := d.next.FindByUsername(ctx, username)

	result := LookupFound
	switch {
	case err != nil:
		result = LookupError
		d.metrics.RecordDatabaseQueryError("find_user")
	case user == nil:
		result = LookupNotFound
	}
	d.metrics.RecordDirectoryLookup(d.next.Name(), result, time.Since(start))

	return user, err
}

func (d *InstrumentedDirectory) CompareCredential(
	ctx context.Context,
	user *models.User,
	password string,
) (bool, error) {
	ok, err := d.next.CompareCredential(ctx, user, password)
	if err != nil {
		d.metrics.RecordDatabaseQueryError("compare_credential")
	}
	return ok, err
}

func (d *InstrumentedDirectory) Name() string {
	return d.next.Name()
}
