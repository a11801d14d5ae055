package sqlite

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

// placeholder returns a placeholder for SQLite (uses ?).
func placeholder(_ int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// classifyError maps SQLITE_BUSY/SQLITE_LOCKED conditions to
// store.ErrContention so the booking retry loop treats them as transient.
func classifyError(err error, msg string) error {
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "database is locked") || strings.Contains(text, "busy") {
		return errors.Wrapf(store.ErrContention, "%s: %v", msg, err)
	}
	return errors.Wrap(err, msg)
}
