package filestore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type uploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// Remote posts uploads to an HTTP object service as multipart/form-data and
// expects {"url": "..."} back.
type Remote struct {
	client    *resty.Client
	uploadURL string
}

func NewRemote(uploadURL, token string) *Remote {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &Remote{client: client, uploadURL: uploadURL}
}

func (r *Remote) Store(ctx context.Context, data []byte, name string) (string, error) {
	var out uploadResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetFormData(map[string]string{"name": name}).
		SetResult(&out).
		SetError(&out).
		Post(r.uploadURL)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload %s: status %d %s", name, resp.StatusCode(), out.Message)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload %s: response has no url", name)
	}
	return out.URL, nil
}
