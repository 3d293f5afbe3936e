package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Parameters for the argon2id algorithm. These follow the OWASP
// recommendations and are tuned so a single hash takes a meaningful
// amount of CPU time.
const (
	argonMemoryKiB   = 47104
	argonIterations  = 1
	argonParallelism = 1
)

var ErrInvalidArgon2Hash = errors.New("invalid argon2 hash")

// Argon2Hash is the parsed representation of an argon2 hash in PHC
// string format:
//
//	$argon2id$v=19$m=47104,t=1,p=1$<base64 salt>$<base64 hash>
//
// Unlike the inputs they are derived from, hashes are not confidential.
type Argon2Hash struct {
	Variant     string
	Version     int
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	Salt        []byte
	Hash        []byte
}

// ParseArgon2Hash parses a hash in PHC string format.
func ParseArgon2Hash(raw string) (Argon2Hash, error) {
	parts := strings.Split(raw, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	h := Argon2Hash{
		Variant: parts[1],
	}

	if h.Variant != "argon2id" {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	if _, err := fmt.Sscanf(parts[2], "v=%d", &h.Version); err != nil {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	if h.Version != argon2.Version {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.MemoryKiB, &h.Iterations, &h.Parallelism); err != nil {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	var err error
	h.Salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	h.Hash, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return Argon2Hash{}, ErrInvalidArgon2Hash
	}

	return h, nil
}

// String encodes the hash in PHC string format.
func (h Argon2Hash) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		h.Variant,
		h.Version,
		h.MemoryKiB,
		h.Iterations,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.Salt),
		base64.RawStdEncoding.EncodeToString(h.Hash),
	)
}

func (h Argon2Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Argon2Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseArgon2Hash(string(text))
	if err != nil {
		return err
	}

	*h = parsed

	return nil
}

// Scan implements the sql.Scanner interface so hashes can be read
// directly from database rows.
func (h *Argon2Hash) Scan(src any) error {
	s, ok := src.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Argon2Hash", src)
	}

	return h.UnmarshalText([]byte(s))
}

// MatchBytes reports whether the provided plaintext matches the hash.
// It re-derives the hash using the parameters stored in h, so it keeps
// working when the package-level parameters change. A malformed hash
// never matches, it does not cause an error.
func (h Argon2Hash) MatchBytes(plain []byte) bool {
	if h.Variant != "argon2id" || h.Version != argon2.Version {
		return false
	}

	if len(h.Salt) == 0 || len(h.Hash) == 0 {
		return false
	}

	derived := argon2.IDKey(plain, h.Salt, h.Iterations, h.MemoryKiB, h.Parallelism, uint32(len(h.Hash)))

	return subtle.ConstantTimeCompare(derived, h.Hash) == 1
}

// hashBytes hashes the plaintext with a random salt using the
// package-level argon2id parameters.
func hashBytes(plain []byte) (Argon2Hash, error) {
	salt, err := genRandomBytes(saltLen)
	if err != nil {
		return Argon2Hash{}, err
	}

	hash := argon2.IDKey(plain, salt, argonIterations, argonMemoryKiB, argonParallelism, keyLen)

	return Argon2Hash{
		Variant:     "argon2id",
		Version:     argon2.Version,
		MemoryKiB:   argonMemoryKiB,
		Iterations:  argonIterations,
		Parallelism: argonParallelism,
		Salt:        salt,
		Hash:        hash,
	}, nil
}

// matchHash reports whether plain matches the given hash.
func matchHash(h Argon2Hash, plain []byte) bool {
	return h.MatchBytes(plain)
}

func genRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	return b, nil
}
