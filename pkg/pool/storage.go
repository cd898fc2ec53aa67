package pool

import (
	"errors"
	"fmt"

	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

var (
	// ErrStorageUnavailable is the single error kind reported by storage.
	// Use errors.Is to match it through the wrapping layers.
	ErrStorageUnavailable = errors.New("pool: shared storage unavailable")

	// ErrPoisoned reports that a panic escaped a critical section of the
	// storage. Spares are still usable; Size and Prewarm refuse until
	// ClearPoison is called.
	ErrPoisoned = fmt.Errorf("%w: poisoned", ErrStorageUnavailable)

	// ErrClosed reports that the storage was torn down by Close.
	ErrClosed = fmt.Errorf("%w: closed", ErrStorageUnavailable)
)

// Storage holds the spare values of a pool.
//
// Take pops the most recently given value. Give pushes v and reports
// whether it was kept; on false the caller drops v. Len and Fill may fail
// only with errors wrapping ErrStorageUnavailable.
type Storage[T any] interface {
	Take() (T, bool)
	Give(v T) bool
	Len() (int, error)
	Fill(n int, newFn func() T) error
	Close()
}

// PoisonAware is implemented by storage that tracks poisoning.
type PoisonAware interface {
	Poisoned() bool
	ClearPoison()
	// SetRecoveryHook registers fn to be called with the operation name
	// ("take" or "give") each time an operation proceeds on poisoned data.
	SetRecoveryHook(fn func(op string))
}

// Operation names passed to recovery hooks and attached to errors.
const (
	OpTake = "take"
	OpGive = "give"
	OpLen  = "len"
	OpFill = "fill"
)

func unavailable(cause error, op, reason string) error {
	return poolerrors.Wrap(cause, errorType(cause), op+" refused").
		WithDetail("op", op).
		WithDetail("reason", reason)
}

// errorType classifies a storage failure. Poisoning can be cleared, a
// closed storage stays closed.
func errorType(err error) poolerrors.ErrorType {
	if errors.Is(err, ErrClosed) {
		return poolerrors.ErrorTypeClosed
	}
	return poolerrors.ErrorTypeStorage
}
