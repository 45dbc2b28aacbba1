package dedup

import "errors"

// Error taxonomy for the duplicate pipeline. Handlers map these onto HTTP
// statuses; bulk operations record them per report instead of failing fast.
var (
	// ErrReportNotFound indicates the referenced duplicate report does not exist.
	ErrReportNotFound = errors.New("duplicate report not found")

	// ErrInvalidReportState indicates a report is structurally unable to merge
	// (fewer than 2 contact references, or not in pending status).
	ErrInvalidReportState = errors.New("report is not in a mergeable state")

	// ErrWriteConflict indicates a transactional write conflict that persisted
	// through the bounded retry loop.
	ErrWriteConflict = errors.New("transactional write conflict")
)
