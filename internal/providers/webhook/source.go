package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// FileSource resolves artifact locations to byte streams. Network-style
// locations are fetched; anything else is treated as a local file path.
type FileSource struct {
	http *http.Client
}

func NewFileSource() *FileSource {
	return &FileSource{http: &http.Client{}}
}

func (s *FileSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %q returned status %d", location, resp.StatusCode)
		}
		return resp.Body, nil
	}
	return os.Open(location)
}
