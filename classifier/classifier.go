// Package classifier calls the external image-classification service that
// suggests a category and department for a submitted photo. The service is
// a collaborator, never reimplemented here: classification failures are
// reported as ClassificationError so the caller can fall back to manual
// triage instead of losing the citizen's report.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"govx-be/apperrors"
	"govx-be/models"

	"github.com/apex/log"
)

// ConfidenceThreshold is the minimum confidence for auto-routing. Below it
// the issue goes to the manual triage queue rather than being auto-assigned.
const ConfidenceThreshold = 0.5

const requestTimeout = 15 * time.Second

// Result is the classifier service's verdict for one image.
type Result struct {
	Category            models.IssueCategory `json:"category"`
	Confidence          float64              `json:"confidence"`
	SuggestedDepartment models.Department    `json:"suggestedDepartment"`
}

// Client represents a classifier service client
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a new classifier client
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type classifyRequest struct {
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
}

// Classify sends the image to the classification service. Transport errors
// get one retry; a second failure, a bad response, or confidence below the
// threshold all come back as *apperrors.ClassificationError.
func (c *Client) Classify(ctx context.Context, imageURL, description string) (*Result, error) {
	if c.endpoint == "" {
		return nil, &apperrors.ClassificationError{Reason: "classifier not configured"}
	}

	var result *Result
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		result, err = c.classifyOnce(ctx, imageURL, description)
		if err == nil {
			break
		}
		log.WithError(err).Warnf("classifier attempt %d failed", attempt+1)
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return nil, &apperrors.ClassificationError{Reason: "classifier unreachable", Err: err}
	}

	if result.Confidence < ConfidenceThreshold {
		return nil, &apperrors.ClassificationError{
			Reason: fmt.Sprintf("confidence %.2f below threshold %.2f", result.Confidence, ConfidenceThreshold),
		}
	}

	return result, nil
}

func (c *Client) classifyOnce(ctx context.Context, imageURL, description string) (*Result, error) {
	body, err := json.Marshal(classifyRequest{ImageURL: imageURL, Description: description})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(b))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if result.Category == "" {
		return nil, fmt.Errorf("classifier response missing category")
	}

	return &result, nil
}
