package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

// placeholder returns a placeholder for PostgreSQL (uses $1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// SQLSTATE codes that indicate a conflict expected to clear on retry.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// classifyError maps transient lock conflicts to store.ErrContention so the
// booking retry loop can tell them apart from fatal store errors.
func classifyError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return errors.Wrapf(store.ErrContention, "%s: %v", msg, err)
		}
	}
	return errors.Wrap(err, msg)
}
