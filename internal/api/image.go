package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

// ImageStyle is appended to every image prompt.
const ImageStyle = " Pixel art"

// FetchImage asks the API for an illustration of prompt and returns the
// image reference (usually a URL). Non-2xx responses are *RequestError,
// transport failures *NetworkError. Nothing is cached or retried.
func (c *Client) FetchImage(ctx context.Context, prompt string) (string, error) {
	if err := quiz.ValidatePrompt(prompt); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("code", "")
	q.Set("prompt", prompt+ImageStyle)

	raw, err := c.getBody(ctx, PathGenerateImage, q)
	if err != nil {
		c.logger.Warn("image request failed", zap.Error(err))
		return "", err
	}

	ref, err := parseImageResponse(raw)
	if err != nil {
		return "", err
	}
	c.logger.Info("image generated", zap.String("image", ref))
	return ref, nil
}

// parseImageResponse accepts either {"image_url": "..."} or a bare
// reference. A JSON body carrying "error" is a failed generation.
func parseImageResponse(raw []byte) (string, error) {
	body := strings.TrimSpace(string(raw))

	var obj struct {
		ImageURL string `json:"image_url"`
		Error    string `json:"error"`
	}
	if strings.HasPrefix(body, "{") && json.Unmarshal(raw, &obj) == nil {
		if obj.Error != "" {
			return "", &RequestError{Endpoint: PathGenerateImage, StatusCode: 200, Message: obj.Error}
		}
		if obj.ImageURL != "" {
			return obj.ImageURL, nil
		}
	}

	var s string
	if strings.HasPrefix(body, `"`) && json.Unmarshal(raw, &s) == nil {
		return s, nil
	}
	return body, nil
}
