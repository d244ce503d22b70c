package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

type polarityRequest struct {
	Text string `json:"text"`
}

type polarityResponse struct {
	Compound float64 `json:"compound"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPScorer asks an external scoring service for the compound polarity of a text.
// The service accepts POST /polarity {"text": "..."} and answers {"compound": 0.42}.
type HTTPScorer struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
}

// NewHTTPScorer parses rawURL and returns a scorer with a default HTTP client.
func NewHTTPScorer(rawURL string) (*HTTPScorer, error) {
	if rawURL == "" {
		return nil, ErrScorerURLMissing
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerURLParse, err)
	}
	return &HTTPScorer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
	}, nil
}

// Score implements Scorer.
func (s *HTTPScorer) Score(ctx context.Context, text string) (float64, error) {
	jsonData, err := json.Marshal(polarityRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequestMarshal, err)
	}

	endpointURL := s.BaseURL.ResolveReference(&url.URL{Path: "/polarity"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequestCreate, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequestExecute, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	log.Debug().Int("status_code", resp.StatusCode).Str("url", endpointURL.String()).Msg("Received scorer response")

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if decodeErr := json.Unmarshal(body, &errResp); decodeErr == nil && errResp.Error != "" {
			return 0, fmt.Errorf("%w: %s (status %d)", ErrScorerServerError, errResp.Error, resp.StatusCode)
		}
		return 0, fmt.Errorf("%w (status %d)", ErrScorerServerError, resp.StatusCode)
	}

	var out polarityResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	if out.Compound < -1 || out.Compound > 1 {
		return 0, fmt.Errorf("%w: %v", ErrScoreOutOfRange, out.Compound)
	}
	return out.Compound, nil
}
