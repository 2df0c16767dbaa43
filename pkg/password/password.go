package password

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultMinimumLength applies when no policy length is configured.
	DefaultMinimumLength = 8

	randomLength = 12
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!#$%&()*+-./:;<=>?@[]^_{}~"
)

// Hasher hashes and verifies credentials and generates one-time passwords
// satisfying the complexity policy.
type Hasher struct {
	minimumLength int
}

// NewHasher builds a Hasher with the configured minimum length.
func NewHasher(minimumLength int) *Hasher {
	if minimumLength <= 0 {
		minimumLength = DefaultMinimumLength
	}
	return &Hasher{minimumLength: minimumLength}
}

// Hash returns the salted bcrypt hash of the plain credential.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. A malformed stored
// hash yields false, never an error.
func (h *Hasher) Verify(plain, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// IsValid reports whether the plain credential satisfies the policy:
// minimum length plus at least one lower, upper, digit and special rune.
func (h *Hasher) IsValid(plain string) bool {
	if len(plain) < h.minimumLength {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Random generates a one-time password that always satisfies IsValid.
func (h *Hasher) Random() (string, error) {
	length := randomLength
	if length < h.minimumLength {
		length = h.minimumLength
	}

	// One rune from every class first, the remainder from the union.
	classes := []string{lowerChars, upperChars, digitChars, specialChars}
	all := lowerChars + upperChars + digitChars + specialChars

	runes := make([]byte, 0, length)
	for _, class := range classes {
		ch, err := pick(class)
		if err != nil {
			return "", err
		}
		runes = append(runes, ch)
	}
	for len(runes) < length {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		runes = append(runes, ch)
	}

	if err := shuffle(runes); err != nil {
		return "", err
	}
	return string(runes), nil
}

func pick(class string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(class))))
	if err != nil {
		return 0, err
	}
	return class[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
