package utils

import "io"

// maxDrain bounds how much of an unread body is discarded before closing.
const maxDrain = 64 << 10

// DrainClose discards what is left of a response body and closes it, so the
// underlying connection can go back to the pool.
func DrainClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, rc, maxDrain)
	_ = rc.Close()
}
