// Package errors defines the failure taxonomy shared by the BCB pipelines.
//
// Retrieval and schema failures are scoped to a single reference period:
// the run records them and moves on to the next period. Only a run that
// ends with zero usable periods, or a failure at the output or publish
// boundary, is fatal.
package errors

import (
	"errors"
	"fmt"

	"bcbdata/pkg/contracts/domain"
)

// Sentinel failures the pipelines branch on with errors.Is.
var (
	// ErrNotFound marks an extract the publisher never made available
	// (HTTP 404). Terminal for that URL; the next candidate is tried.
	ErrNotFound = errors.New("extract not found")

	// ErrPayloadTooSmall marks a response too short to be a real extract,
	// usually an HTML error page served with status 200.
	ErrPayloadTooSmall = errors.New("payload below minimum size")

	// ErrEmptyArchive marks a zip with no extractable table entry.
	ErrEmptyArchive = errors.New("archive has no table entry")

	// ErrEmptyTable marks an extract left without rows after cleanup.
	ErrEmptyTable = errors.New("table has no usable rows")

	// ErrNoIndicatorColumns marks an extract whose header resolved zero
	// indicator columns, meaning the vintage is unrecognizable.
	ErrNoIndicatorColumns = errors.New("no indicator columns resolved")

	// ErrNoUsablePeriods aborts a run in which every period failed.
	ErrNoUsablePeriods = errors.New("no usable periods")
)

// Category classifies a pipeline failure for logging and reporting.
type Category string

const (
	CategoryRetrieval Category = "retrieval"
	CategorySchema    Category = "schema"
	CategoryExport    Category = "export"
	CategoryPublish   Category = "publish"
)

// PipelineError records what failed, for which period, during which
// operation. Period is zero for failures not tied to a single period.
type PipelineError struct {
	Category Category
	Period   domain.Period
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if (e.Period != domain.Period{}) {
		return fmt.Sprintf("%s %s: period %s: %v", e.Category, e.Op, e.Period, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Category, e.Op, e.Err)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Retrieval wraps err as a per-period retrieval failure.
func Retrieval(period domain.Period, op string, err error) *PipelineError {
	return &PipelineError{Category: CategoryRetrieval, Period: period, Op: op, Err: err}
}

// Schema wraps err as a per-period schema failure.
func Schema(period domain.Period, op string, err error) *PipelineError {
	return &PipelineError{Category: CategorySchema, Period: period, Op: op, Err: err}
}

// Export wraps err as an output boundary failure.
func Export(op string, err error) *PipelineError {
	return &PipelineError{Category: CategoryExport, Op: op, Err: err}
}

// Publish wraps err as a repository publish failure.
func Publish(op string, err error) *PipelineError {
	return &PipelineError{Category: CategoryPublish, Op: op, Err: err}
}
