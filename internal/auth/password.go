package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2ID = "argon2id"

var errMalformedHash = errors.New("malformed argon2 hash")

type PasswordParams struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultPasswordParams() PasswordParams {
	return PasswordParams{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher produces PHC strings of the form
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash> with unpadded base64.
type Argon2Hasher struct {
	p     PasswordParams
	dummy string
}

func NewArgon2Hasher(p PasswordParams) (*Argon2Hasher, error) {
	if p.Memory == 0 || p.Time == 0 || p.Parallelism == 0 || p.SaltLength == 0 || p.KeyLength == 0 {
		return nil, fmt.Errorf("argon2 params must be positive: %+v", p)
	}
	h := &Argon2Hasher{p: p}
	dummy, err := h.Hash("dummy-password")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.p.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.p.Time, h.p.Memory, h.p.Parallelism, h.p.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID, argon2.Version, h.p.Memory, h.p.Time, h.p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify never fails loudly: a malformed hash is a mismatch. The work done
// for a malformed hash matches a real verification.
func (h *Argon2Hasher) Verify(password, encoded string) bool {
	ph, err := parsePHC(encoded)
	if err != nil {
		h.burn(password)
		return false
	}
	key := argon2.IDKey([]byte(password), ph.salt, ph.time, ph.memory, ph.parallelism, uint32(len(ph.hash)))
	return subtle.ConstantTimeCompare(key, ph.hash) == 1
}

// Burn spends one verification worth of CPU. Used when there is no stored
// hash to compare against so that unknown accounts cost the same as known ones.
func (h *Argon2Hasher) Burn(password string) { h.burn(password) }

func (h *Argon2Hasher) burn(password string) {
	if ph, err := parsePHC(h.dummy); err == nil {
		_ = argon2.IDKey([]byte(password), ph.salt, ph.time, ph.memory, ph.parallelism, uint32(len(ph.hash)))
	}
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return nil, errMalformedHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, errMalformedHash
	}

	var out phc
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errMalformedHash
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return nil, errMalformedHash
		}
		switch k {
		case "m":
			out.memory = uint32(n)
		case "t":
			out.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, errMalformedHash
			}
			out.parallelism = uint8(n)
		default:
			return nil, errMalformedHash
		}
	}
	if out.memory == 0 || out.time == 0 || out.parallelism == 0 {
		return nil, errMalformedHash
	}

	var err error
	if out.salt, err = decodeB64(parts[4]); err != nil || len(out.salt) == 0 {
		return nil, errMalformedHash
	}
	if out.hash, err = decodeB64(parts[5]); err != nil || len(out.hash) == 0 {
		return nil, errMalformedHash
	}
	return &out, nil
}

// decodeB64 accepts both unpadded and padded standard base64.
func decodeB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
