package ulid

import (
	"fmt"
	"io"
	"math/rand"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     io.Reader
	entropyOnce sync.Once
	generator   = DefaultGenerator
)

var ulidRegex = regexp.MustCompile(`^[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)

// DefaultEntropy returns a reader that generates ULID entropy.
func DefaultEntropy() io.Reader {
	entropyOnce.Do(func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	})
	return entropy
}

// isULID checks if the given string looks like a ULID
//
//	 01AN4Z07BY      79KA1307SR9X4MV3
//	|----------|    |----------------|
//	 Timestamp          Randomness
//
// Crockford's Base32 is used (excludes I, L, O, and U).
func isULID(s string) bool {
	return ulidRegex.MatchString(s)
}

// ValidID checks if the given id is a valid persistent identifier.
func ValidID(id string) bool {
	_, err := ulid.Parse(id)

	return err == nil && isULID(id)
}

// GenerateID mints a new persistent identifier for a tree node.
func GenerateID() string {
	return generator()
}

func DefaultGenerator() string {
	entropy := DefaultEntropy()
	now := time.Now()
	ts := ulid.Timestamp(now)
	return ulid.MustNew(ts, entropy).String()
}

func ResetGenerator() {
	generator = DefaultGenerator
}

func MockGenerator(mockValue string) {
	generator = func() string {
		return mockValue
	}
}

// SequenceGenerator makes GenerateID return "<prefix>-1", "<prefix>-2", ...
// Tests use it to get predictable yet distinct identifiers.
func SequenceGenerator(prefix string) {
	var n atomic.Int64
	generator = func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
