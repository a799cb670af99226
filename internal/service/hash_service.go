package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"payflow/internal/core/ports"

	"golang.org/x/crypto/argon2"
)

const argon2SaltLen = 16

// Argon2Params are the cost parameters used for new operator hashes.
// Verify always uses the parameters encoded in the stored hash.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params is the cost used by the payflow hash-password command.
var DefaultArgon2Params = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

// Argon2HashService implements ports.HashService for operator passwords.
type Argon2HashService struct {
	params Argon2Params
}

var _ ports.HashService = (*Argon2HashService)(nil)

// NewArgon2HashService creates a hash service. Zero params fall back to
// DefaultArgon2Params.
func NewArgon2HashService(params Argon2Params) *Argon2HashService {
	if params.Time == 0 || params.Memory == 0 || params.Threads == 0 || params.KeyLen == 0 {
		params = DefaultArgon2Params
	}
	return &Argon2HashService{params: params}
}

// Hash returns $argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<hash>.
func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	p := s.params
	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify checks password against an encoded hash in constant time.
func (s *Argon2HashService) Verify(password string, encodedHash string) (bool, error) {
	salt, hash, params, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	otherHash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1, nil
}

func decodeArgon2Hash(encodedHash string) (salt, hash []byte, params Argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, params, fmt.Errorf("invalid hash format: expected 6 parts, got %d", len(parts))
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	_, err = fmt.Sscanf(parts[2], "v=%d", &version)
	if err != nil {
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version %d", version)
	}

	_, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads)
	if err != nil {
		return nil, nil, params, fmt.Errorf("parsing params: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}

	params.KeyLen = uint32(len(hash))

	return salt, hash, params, nil
}
