package orders

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NumberGenerator produces human-readable order and tracking numbers from the
// clock and a random source. Uniqueness is probabilistic; the orders
// collection's unique index rejects the rare collision.
type NumberGenerator struct {
	random io.Reader
}

func NewNumberGenerator(random io.Reader) *NumberGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &NumberGenerator{random: random}
}

// OrderNumber is "AG", the last six digits of the millisecond clock and three
// random base-36 characters, e.g. AG483920K7Q.
func (g *NumberGenerator) OrderNumber(now time.Time) (string, error) {
	suffix, err := g.suffix(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("AG%06d%s", now.UnixMilli()%1_000_000, suffix), nil
}

// TrackingNumber is "TRK", the millisecond clock and six random base-36 characters.
func (g *NumberGenerator) TrackingNumber(now time.Time) (string, error) {
	suffix, err := g.suffix(6)
	if err != nil {
		return "", err
	}
	return "TRK" + strconv.FormatInt(now.UnixMilli(), 10) + suffix, nil
}

func (g *NumberGenerator) suffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return string(buf), nil
}
