package cache

import "errors"

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in
// Options and none was supplied per call.
var ErrNoLoader = errors.New("cache: no Loader provided")

// ErrClosed is returned by loading operations after Close.
var ErrClosed = errors.New("cache: closed")
