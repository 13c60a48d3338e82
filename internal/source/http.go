package source

import (
	"context"
	"fmt"
	"image"
	"net/http"
)

// HTTPSource fetches frames over HTTP(S). Requests carry the caller's context
// and no timeout of their own: a hung request only leaves its frame missing.
type HTTPSource struct {
	template Template
	client   *http.Client
}

func NewHTTPSource(t Template, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{template: t, client: client}
}

func (s *HTTPSource) FrameCount() int {
	return 0
}

func (s *HTTPSource) Locate(index int) string {
	return s.template(index)
}

func (s *HTTPSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	url := s.template(index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	img, err := decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

func (s *HTTPSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
