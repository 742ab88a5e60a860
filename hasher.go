package auth

// Argon2ID and Bcrypt name the supported password hashing algorithms
const (
	Argon2ID = "argon2id"
	Bcrypt   = "bcrypt"
)

// DigestHasher is a PasswordHasher that can recognise its own digests
type DigestHasher interface {
	PasswordHasher
	Handles(hash string) bool
}

// MultiHasher hashes with the primary hasher and verifies against
// whichever hasher recognises the stored digest.
type MultiHasher struct {
	primary DigestHasher
	hashers []DigestHasher
}

var _ PasswordHasher = (*MultiHasher)(nil)

// NewMultiHasher filters nil hashers, primary is always consulted first
func NewMultiHasher(primary DigestHasher, others ...DigestHasher) *MultiHasher {
	hashers := make([]DigestHasher, 0, len(others)+1)
	hashers = append(hashers, primary)
	for _, h := range others {
		if h != nil {
			hashers = append(hashers, h)
		}
	}
	return &MultiHasher{
		primary: primary,
		hashers: hashers,
	}
}

// NewPasswordHasher builds the hasher for the configured algorithm, keeping
// the other algorithm available for verification.
func NewPasswordHasher(algorithm string, params Argon2Params, bcryptCost int) *MultiHasher {
	argon := NewArgon2Hasher(params)
	bc := NewBcryptHasher(bcryptCost)

	if algorithm == Bcrypt {
		return NewMultiHasher(bc, argon)
	}
	return NewMultiHasher(argon, bc)
}

func (m *MultiHasher) HashPassword(password string) (string, error) {
	return m.primary.HashPassword(password)
}

// ComparePasswordAndHash fails closed with ErrUnsupportedPasswordHash when no
// hasher recognises the digest
func (m *MultiHasher) ComparePasswordAndHash(password, hash string) error {
	for _, h := range m.hashers {
		if h.Handles(hash) {
			return h.ComparePasswordAndHash(password, hash)
		}
	}
	return ErrUnsupportedPasswordHash
}
