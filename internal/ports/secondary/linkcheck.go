package secondary

import "context"

// LinkChecker probes a URL and reports the HTTP status code it answered with.
// A transport failure returns an error.
type LinkChecker interface {
	Check(ctx context.Context, url string) (int, error)
}
