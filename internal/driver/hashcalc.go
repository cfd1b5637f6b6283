package driver

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a sha256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ContentDigest hashes file content.
func ContentDigest(content []byte) Digest {
	return sha256.Sum256(content)
}

// combineDigest: H(content || part1 || part2 ...), parts in a fixed order.
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey identifies "content formatted with a configuration". The tool
// version is part of it so that a new formatter never trusts old verdicts.
func CacheKey(content []byte, fingerprint, toolVersion string) Digest {
	return combineDigest(ContentDigest(content), fingerprint, toolVersion)
}
