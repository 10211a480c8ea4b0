// Package enrichment provides the OpenFDA drug-label adapter.
// It implements ports.Enricher; the domain layer knows nothing about OpenFDA.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

var (
	// ErrUnavailable covers network failures, timeouts, bad statuses and
	// malformed payloads.
	ErrUnavailable = errors.New("enrichment source unavailable")
	// ErrNotFound is returned when the source has no label for the token.
	ErrNotFound = errors.New("no drug label found")
)

// OpenFDAAdapter implements ports.Enricher using the OpenFDA drug label API.
type OpenFDAAdapter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewOpenFDAAdapter creates a new OpenFDA adapter. Every lookup is a single
// attempt bounded by timeout.
func NewOpenFDAAdapter(baseURL string, timeout time.Duration, logger *slog.Logger) *OpenFDAAdapter {
	if baseURL == "" {
		baseURL = "https://api.fda.gov"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenFDAAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "openfda"),
	}
}

// labelResponse is the subset of the drug label payload we read.
type labelResponse struct {
	Results []struct {
		IndicationsAndUsage     []string `json:"indications_and_usage"`
		Warnings                []string `json:"warnings"`
		DosageAndAdministration []string `json:"dosage_and_administration"`
		Contraindications       []string `json:"contraindications"`
	} `json:"results"`
}

// LookupToken derives the search token from a medicine name: its first word,
// lowercased.
func LookupToken(medicineName string) string {
	fields := strings.Fields(medicineName)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// Enrich fetches the first drug label matching the name's lookup token.
func (a *OpenFDAAdapter) Enrich(ctx context.Context, medicineName string) (*entities.Enrichment, error) {
	token := LookupToken(medicineName)
	if token == "" {
		return nil, fmt.Errorf("%w: empty medicine name", ErrNotFound)
	}

	query := url.Values{}
	query.Set("search", token)
	query.Set("limit", "1")
	endpoint := a.baseURL + "/drug/label.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	a.logger.Debug("label lookup", "token", token)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling OpenFDA: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, token)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: OpenFDA returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var label labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&label); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if len(label.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, token)
	}

	r := label.Results[0]
	return &entities.Enrichment{
		Indications:       first(r.IndicationsAndUsage),
		Warnings:          first(r.Warnings),
		Dosage:            first(r.DosageAndAdministration),
		Contraindications: first(r.Contraindications),
	}, nil
}

// first returns the leading entry of a label section or NotAvailable.
func first(values []string) string {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return entities.NotAvailable
	}
	return strings.TrimSpace(values[0])
}
