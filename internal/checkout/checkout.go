// Package checkout builds payment signatures, reference codes and add-to-cart payloads.
package checkout

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrMissingField is returned when a signature request lacks a field.
var ErrMissingField = errors.New("missing required field")

// ErrNoCredentials is returned when the merchant credentials are not configured.
var ErrNoCredentials = errors.New("payment credentials not configured")

// Credentials are the server-held merchant secrets.
type Credentials struct {
	APIKey     string
	MerchantID string
}

// SignatureRequest is the body of a signature request.
type SignatureRequest struct {
	ReferenceCode string `json:"referenceCode"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// Sign returns the gateway signature md5("apiKey~merchantId~referenceCode~amount~currency") in hex.
func (c Credentials) Sign(req SignatureRequest) (string, error) {
	fields := [][2]string{
		{"referenceCode", req.ReferenceCode},
		{"amount", req.Amount},
		{"currency", req.Currency},
	}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingField, f[0])
		}
	}
	if c.APIKey == "" || c.MerchantID == "" {
		return "", ErrNoCredentials
	}

	sum := md5.Sum([]byte(strings.Join([]string{
		c.APIKey, c.MerchantID, req.ReferenceCode, req.Amount, req.Currency,
	}, "~")))

	return hex.EncodeToString(sum[:]), nil
}

// NewReference returns a unique order reference (e.g. MIXO-6f1c...).
func NewReference(product string) string {
	return strings.ToUpper(product) + "-" + uuid.NewString()
}
