package ingest

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrTransientFetch marks network/timeout failures that were already
	// retried inside the source's own retry loop.
	ErrTransientFetch = crerr.New("transient fetch failure")

	// ErrDatasetParse marks a reachable document from which no extraction
	// strategy could produce the required fields.
	ErrDatasetParse = crerr.New("dataset parse failure")
)

// AbortDataset wraps reason as a fatal parse failure for dataset, used when
// the dataset policy is abort.
func AbortDataset(dataset Dataset, reason string) error {
	return crerr.Mark(fmt.Errorf("%s: %s", dataset, reason), ErrDatasetParse)
}
