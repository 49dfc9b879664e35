package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Alphanumeric only, so generated keys never contain glob metacharacters.
const nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var NanoidSize = 32

func NanoID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, NanoidSize)
}

// PrefixedNanoID returns prefix followed by a fresh NanoID.
func PrefixedNanoID(prefix string) string {
	return prefix + NanoID()
}
