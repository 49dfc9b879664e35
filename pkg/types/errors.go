package types

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrKeyExists        = errors.New("key already exists")
	ErrUnsupportedStore = errors.New("unsupported store url scheme")
	ErrUnsupportedMedia = errors.New("unsupported media backend")
)
