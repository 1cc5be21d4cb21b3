package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/SanchoLoco/NoPressure/pkg/common/config"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"golang.org/x/oauth2/clientcredentials"
)

// Classifier is the capability interface for the external wound classifier.
// Implementations return nil when no classifier data is available; callers
// must treat absence as "no classifier data", never as an error.
type Classifier interface {
	Classify(ctx context.Context, image []byte, woundID string) *models.ClassifierResult
}

const mockModelVersion = "mock-1.0.0"

// Client calls the remote classifier API. In mock mode (or with no base URL
// configured) it returns a fixed development response instead of making
// network calls.
type Client struct {
	baseURL    string
	mockMode   bool
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: cfg.ClassifierTimeout}
	if cfg.ClassifierTokenURL != "" && cfg.ClassifierClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClassifierClientID,
			ClientSecret: cfg.ClassifierClientSecret,
			TokenURL:     cfg.ClassifierTokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = cfg.ClassifierTimeout
	}

	return &Client{
		baseURL:    cfg.ClassifierBaseURL,
		mockMode:   cfg.ClassifierMockMode,
		httpClient: httpClient,
	}
}

// Classify sends the wound image to the classifier and returns its severity
// score, stage label, confidence and model version. Any transport or decode
// failure degrades to a nil result.
func (c *Client) Classify(ctx context.Context, image []byte, woundID string) *models.ClassifierResult {
	if c.mockMode || c.baseURL == "" {
		logger.Log.WithField("wound_id", woundID).Debug("Using mock classifier response")
		return &models.ClassifierResult{
			SeverityScore: 2.7,
			Stage:         "Stage 2",
			Confidence:    0.94,
			ModelVersion:  mockModelVersion,
		}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "wound.jpg")
	if err != nil {
		logger.Log.WithError(err).Warn("Classifier request build failed")
		return nil
	}
	if _, err := part.Write(image); err != nil {
		logger.Log.WithError(err).Warn("Classifier request build failed")
		return nil
	}
	if err := writer.WriteField("wound_id", woundID); err != nil {
		logger.Log.WithError(err).Warn("Classifier request build failed")
		return nil
	}
	if err := writer.Close(); err != nil {
		logger.Log.WithError(err).Warn("Classifier request build failed")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", body)
	if err != nil {
		logger.Log.WithError(err).Warn("Classifier request build failed")
		return nil
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("Classifier API unavailable")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithField("status", resp.StatusCode).Warn("Classifier API returned non-200")
		return nil
	}

	var payload struct {
		SeverityScore float64 `json:"severity_score"`
		Stage         string  `json:"stage"`
		Confidence    float64 `json:"confidence"`
		ModelVersion  string  `json:"model_version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode classifier response")
		return nil
	}

	modelVersion := payload.ModelVersion
	if modelVersion == "" {
		modelVersion = c.Version(ctx)
	}

	return &models.ClassifierResult{
		SeverityScore: payload.SeverityScore,
		Stage:         payload.Stage,
		Confidence:    payload.Confidence,
		ModelVersion:  modelVersion,
	}
}

// Version probes the classifier /version endpoint for model traceability.
// Returns "unknown" when the endpoint is unreachable.
func (c *Client) Version(ctx context.Context) string {
	if c.mockMode || c.baseURL == "" {
		return mockModelVersion
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return "unknown"
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("Classifier /version endpoint unavailable")
		return "unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "unknown"
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "unknown"
	}
	if payload.Version == "" {
		return "unknown"
	}
	return payload.Version
}

var _ Classifier = (*Client)(nil)
