package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/iho/chitledger/internal/domain"
)

// ErrChainBroken is returned by Verify when a link does not match.
var ErrChainBroken = errors.New("anchor chain broken")

// Block is one link of the local chain.
type Block struct {
	Height    int
	PrevHash  string
	Hash      string
	RecordID  string
	Kind      domain.AnchorKind
	Summary   []byte
	Timestamp time.Time
}

// HashChain is an in-process anchoring ledger. Each hash covers the previous
// hash and the canonical summary, so altering any stored summary breaks
// every later link. Used when no relay is configured.
type HashChain struct {
	mu     sync.RWMutex
	blocks []Block
	byID   map[string]int
	now    func() time.Time
}

// NewHashChain creates an empty chain.
func NewHashChain() *HashChain {
	return &HashChain{
		byID: make(map[string]int),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Anchor appends the summary and returns its block hash. Anchoring the same
// record twice returns the original hash.
func (c *HashChain) Anchor(ctx context.Context, summary domain.AnchorSummary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := string(summary.Kind) + ":" + summary.RecordID

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.byID[key]; ok {
		return c.blocks[i].Hash, nil
	}

	prev := ""
	if n := len(c.blocks); n > 0 {
		prev = c.blocks[n-1].Hash
	}

	canonical := summary.Canonical()
	block := Block{
		Height:    len(c.blocks),
		PrevHash:  prev,
		Hash:      linkHash(prev, canonical),
		RecordID:  summary.RecordID,
		Kind:      summary.Kind,
		Summary:   canonical,
		Timestamp: c.now(),
	}

	c.blocks = append(c.blocks, block)
	c.byID[key] = block.Height

	return block.Hash, nil
}

// Len returns the number of blocks.
func (c *HashChain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Verify recomputes every link.
func (c *HashChain) Verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prev := ""
	for _, b := range c.blocks {
		if b.PrevHash != prev {
			return fmt.Errorf("%w: block %d prev hash mismatch", ErrChainBroken, b.Height)
		}
		if linkHash(prev, b.Summary) != b.Hash {
			return fmt.Errorf("%w: block %d hash mismatch", ErrChainBroken, b.Height)
		}
		prev = b.Hash
	}

	return nil
}

func linkHash(prev string, canonical []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(prev))
	h.Write(canonical)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
