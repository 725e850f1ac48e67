//go:build !windows

package kvstore

import (
	"io/fs"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/google/renameio/v2"
)

// writeFile atomically replaces path with data.
func writeFile(path string, data []byte, perm fs.FileMode) (err error) {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(perm))
	if err != nil {
		return err
	}
	defer func() { err = withDeferredCleanup(err, f) }()

	_, err = f.Write(data)
	return err
}

// withDeferredCleanup discards the pending file when returned is non-nil and
// moves it into place otherwise.
func withDeferredCleanup(returned error, f *renameio.PendingFile) (err error) {
	if returned != nil {
		return errors.WithDeferred(returned, f.Cleanup())
	}

	return errors.WithDeferred(nil, f.CloseAtomicallyReplace())
}
