package errors

import "errors"

// ErrOptimisticLock signals that the row was modified by another operation
// between read and write; callers should refetch and retry.
var ErrOptimisticLock = errors.New("record was modified by another operation")
