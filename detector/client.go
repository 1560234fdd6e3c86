package detector

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"go-ecoagent/types"
)

// Client talks to the hosted person-detection model over HTTP. The
// model is a black box: image in, count and boxes out.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Count          int                 `json:"count"`
	Boxes          []types.BoundingBox `json:"boxes"`
	AnnotatedImage string              `json:"annotated_image,omitempty"`
}

// NewClient builds a detector client for baseURL. Every call is bounded
// by the timeout; a timed-out call counts as a failed detection.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient, logger: logger}
}

// Detect sends one frame to the model and returns raw detections.
// Transport failures and non-200 responses surface as
// types.ErrModelUnavailable so the caller can degrade per room.
func (c *Client) Detect(ctx context.Context, image []byte) (*types.DetectionResult, error) {
	var out detectResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(detectRequest{Image: base64.StdEncoding.EncodeToString(image)}).
		SetResult(&out).
		Post("/detect")
	if err != nil {
		c.logger.Warn("detector call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn("detector returned non-200", zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: detector status %s", types.ErrModelUnavailable, resp.Status())
	}

	result := &types.DetectionResult{Count: out.Count, Boxes: out.Boxes}
	if out.AnnotatedImage != "" {
		if decoded, decErr := base64.StdEncoding.DecodeString(out.AnnotatedImage); decErr == nil {
			result.AnnotatedImage = decoded
		}
	}
	return result, nil
}
