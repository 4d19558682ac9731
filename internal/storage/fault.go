package storage

import (
	"errors"
	"fmt"

	"github.com/muhammadolammi/skillbridge/internal/database"
)

var (
	ErrProgressOutOfRange = errors.New("progress must be between 0 and 100")
	ErrInvalidStatus      = errors.New("status must be accepted or rejected")
)

type FaultKind int

const (
	// FaultUnavailable: no structured store configured or reachable.
	FaultUnavailable FaultKind = iota
	// FaultPermission: a create or probe step was refused.
	FaultPermission
	// FaultQuery: a record statement failed after the binding was usable.
	FaultQuery
	// FaultCorrupt: a flat file could not be decoded.
	FaultCorrupt
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnavailable:
		return "unavailable"
	case FaultPermission:
		return "permission"
	case FaultQuery:
		return "query"
	case FaultCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// StorageFault carries why a storage step failed so callers can decide on a
// fallback without losing the cause.
type StorageFault struct {
	Kind   FaultKind
	Record database.RecordKind
	Op     string
	Err    error
}

func (f *StorageFault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s %s: %s", f.Record, f.Op, f.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", f.Record, f.Op, f.Kind, f.Err)
}

func (f *StorageFault) Unwrap() error { return f.Err }

func fault(kind FaultKind, record database.RecordKind, op string, err error) *StorageFault {
	return &StorageFault{Kind: kind, Record: record, Op: op, Err: err}
}

// IsFault reports whether err contains a StorageFault of the given kind.
func IsFault(err error, kind FaultKind) bool {
	var f *StorageFault
	return errors.As(err, &f) && f.Kind == kind
}
