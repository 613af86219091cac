package util

import (
	"errors"
	"math/rand"
)

const randAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrBadRange = errors.New("invalid length range")

// TruncateString shortens s to at most max runes, appending "..." when it had
// to cut. max <= 0 returns the empty string.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// RandomStrRange returns a random alphanumeric string whose length is drawn
// uniformly from [min, max]. min must be non-negative and not exceed max.
func RandomStrRange(min, max int) (string, error) {
	if min < 0 || min > max {
		return "", ErrBadRange
	}
	n := min + rand.Intn(max-min+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = randAlphabet[rand.Intn(len(randAlphabet))]
	}
	return string(b), nil
}
