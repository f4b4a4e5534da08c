package queryid

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
)

const DefaultAlgorithm = "sha256"

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported hash algorithm %q, supported algorithms: %v", e.Algorithm, SupportedAlgorithms())
}

// SupportedAlgorithms returns the names accepted by NewHasher in lexical order.
func SupportedAlgorithms() []string {
	out := make([]string, 0, len(algorithms))
	for name := range algorithms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Hasher hashes canonical query text. It is safe for concurrent use.
type Hasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewHasher returns a Hasher for algorithm. An empty algorithm selects DefaultAlgorithm.
func NewHasher(algorithm string) (*Hasher, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	newHash, ok := algorithms[algorithm]
	if !ok {
		return nil, &UnsupportedAlgorithmError{Algorithm: algorithm}
	}
	return &Hasher{
		algorithm: algorithm,
		newHash:   newHash,
	}, nil
}

func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns the lowercase hex digest of text.
func (h *Hasher) Hash(text string) string {
	digest := h.newHash()
	_, _ = digest.Write([]byte(text))
	return hex.EncodeToString(digest.Sum(nil))
}
