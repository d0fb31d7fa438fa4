package loader

import (
	"errors"
	"fmt"
)

// Kind classifies why an asset could not be used.
type Kind int

const (
	// AssetUnavailable covers missing files and I/O failures.
	AssetUnavailable Kind = iota + 1
	// AssetMalformed covers parse, format and content errors.
	AssetMalformed
)

func (k Kind) String() string {
	switch k {
	case AssetUnavailable:
		return "asset unavailable"
	case AssetMalformed:
		return "asset malformed"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against an *AssetError.
var (
	ErrAssetUnavailable = errors.New("asset unavailable")
	ErrAssetMalformed   = errors.New("asset malformed")
)

// AssetError is the only error a load attempt reports.
type AssetError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *AssetError) Is(target error) bool {
	switch target {
	case ErrAssetUnavailable:
		return e.Kind == AssetUnavailable
	case ErrAssetMalformed:
		return e.Kind == AssetMalformed
	}
	return false
}

func unavailable(path string, err error) error {
	return &AssetError{Kind: AssetUnavailable, Path: path, Err: err}
}

func malformed(path string, err error) error {
	return &AssetError{Kind: AssetMalformed, Path: path, Err: err}
}

// KindOf returns the kind of an asset error, or 0 for anything else.
func KindOf(err error) Kind {
	var ae *AssetError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
