// Package anchor records settled transaction fingerprints on a
// tamper-evident ledger.
package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/domain"
)

var txHashPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{16,128}$`)

// Client implements usecase.AnchoringLedger against a ledger relay service.
type Client struct {
	http *httpjson.Client
}

// NewClient creates a new anchoring Client.
func NewClient(baseURL, token string, timeout time.Duration, opts ...httpjson.Option) *Client {
	opts = append([]httpjson.Option{httpjson.WithBearerToken(token)}, opts...)
	return &Client{http: httpjson.New(baseURL, timeout, opts...)}
}

type anchorRequest struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Digest   string `json:"digest"`
	Summary  string `json:"summary"`
}

type anchorResponse struct {
	TxHash string `json:"tx_hash"`
}

func (r *anchorResponse) Validate() error {
	if r.TxHash == "" {
		return errors.New("tx_hash is required")
	}
	if !txHashPattern.MatchString(r.TxHash) {
		return fmt.Errorf("tx_hash %q is not a hex hash", r.TxHash)
	}
	return nil
}

// Anchor submits the summary's digest and returns the ledger transaction hash.
func (c *Client) Anchor(ctx context.Context, summary domain.AnchorSummary) (string, error) {
	canonical := summary.Canonical()

	var resp anchorResponse
	err := c.http.Do(ctx, http.MethodPost, "/v1/anchors", anchorRequest{
		Kind:     string(summary.Kind),
		RecordID: summary.RecordID,
		Digest:   Digest(canonical),
		Summary:  string(canonical),
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.TxHash, nil
}

// Digest is the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
