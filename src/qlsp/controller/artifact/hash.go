package artifact

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
)

var _hashes = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// multiHasher computes every algorithm named by a set of expected "<algorithm>:<hex>" hashes in one pass.
type multiHasher struct {
	order []string
	sums  map[string]hash.Hash
}

func newMultiHasher(expected []string) (*multiHasher, error) {
	m := &multiHasher{sums: make(map[string]hash.Hash)}
	for _, e := range expected {
		algorithm, _, ok := strings.Cut(e, ":")
		if !ok {
			return nil, &errors.ValidationError{Field: "hashes", Reason: fmt.Sprintf("%q is not <algorithm>:<hex>", e)}
		}
		algorithm = strings.ToLower(algorithm)
		newHash, ok := _hashes[algorithm]
		if !ok {
			return nil, &errors.ValidationError{Field: "hashes", Reason: fmt.Sprintf("unsupported algorithm %q", algorithm)}
		}
		if _, ok := m.sums[algorithm]; !ok {
			m.order = append(m.order, algorithm)
			m.sums[algorithm] = newHash()
		}
	}
	if len(m.order) == 0 {
		return nil, &errors.ValidationError{Field: "hashes", Reason: "no expected hash"}
	}
	return m, nil
}

func (m *multiHasher) Write(p []byte) (int, error) {
	for _, h := range m.sums {
		h.Write(p)
	}
	return len(p), nil
}

func (m *multiHasher) sum(algorithm string) string {
	return algorithm + ":" + hex.EncodeToString(m.sums[algorithm].Sum(nil))
}

// matches reports whether any expected hash equals the computed one. actual is the first computed hash.
func (m *multiHasher) matches(expected []string) (actual string, ok bool) {
	computed := make(map[string]string, len(m.order))
	for _, algorithm := range m.order {
		computed[algorithm] = m.sum(algorithm)
	}
	for _, e := range expected {
		algorithm, value, _ := strings.Cut(e, ":")
		algorithm = strings.ToLower(algorithm)
		if strings.EqualFold(computed[algorithm], algorithm+":"+value) {
			return computed[algorithm], true
		}
	}
	return computed[m.order[0]], false
}
