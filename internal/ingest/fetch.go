package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/nhle/obra-tracker/internal/credential"
	"github.com/nhle/obra-tracker/internal/model"
)

// Fetcher opens the raw bytes of a workbook source.
type Fetcher interface {
	Fetch(ctx context.Context, src model.SourceConfig) (io.ReadCloser, error)
}

// DefaultFetcher reads local files directly and downloads http(s)
// locations, attaching a bearer token from the keyring when the source
// names a credential key.
type DefaultFetcher struct {
	Client *http.Client
	// Token resolves a credential key. Nil means credential.Get.
	Token func(key string) (string, error)
}

// Fetch implements Fetcher. Every failure wraps ErrSourceUnavailable.
func (f *DefaultFetcher) Fetch(ctx context.Context, src model.SourceConfig) (io.ReadCloser, error) {
	if src.Location == "" {
		return nil, fmt.Errorf("%w: no location configured", ErrSourceUnavailable)
	}
	if !src.IsRemote() {
		fh, err := os.Open(src.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return fh, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrSourceUnavailable, err)
	}
	if src.CredentialKey != "" {
		token, err := f.token(src.CredentialKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned %s", ErrSourceUnavailable, src.Location, resp.Status)
	}
	return resp.Body, nil
}

func (f *DefaultFetcher) token(key string) (string, error) {
	if f.Token != nil {
		return f.Token(key)
	}
	return credential.Get(key)
}
