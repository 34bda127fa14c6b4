package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evilsocket/islazy/log"
)

const (
	SystemIDHeader = "X-Pvoutput-SystemId"
	APIKeyHeader   = "X-Pvoutput-Apikey"

	maxLoggedBody = 512
)

// Uploader delivers one formatted batch and returns the HTTP status the
// remote service answered with.
type Uploader interface {
	Send(ctx context.Context, payload, systemID, apiKey string) (int, error)
}

// HTTPUploader posts batches to the batch status endpoint.
type HTTPUploader struct {
	endpoint string
	client   *http.Client
}

func NewUploader(endpoint string, timeout time.Duration) (*HTTPUploader, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, &ProtocolError{Field: "endpoint", Err: err}
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &ProtocolError{Field: "endpoint", Err: fmt.Errorf("unsupported scheme '%s'", parsed.Scheme)}
	}

	return &HTTPUploader{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func checkHeaderValue(field, value string) error {
	if value == "" {
		return &ProtocolError{Field: field, Err: errors.New("empty value")}
	} else if strings.ContainsAny(value, "\r\n\x00") {
		return &ProtocolError{Field: field, Err: errors.New("value contains control characters")}
	}
	return nil
}

func (u *HTTPUploader) Send(ctx context.Context, payload, systemID, apiKey string) (int, error) {
	if err := checkHeaderValue("system id", systemID); err != nil {
		return 0, err
	} else if err = checkHeaderValue("api key", apiKey); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, strings.NewReader(payload))
	if err != nil {
		return 0, &ProtocolError{Field: "request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(SystemIDHeader, systemID)
	req.Header.Set(APIKeyHeader, apiKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, &TransportError{URL: u.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	if err != nil {
		return 0, &TransportError{URL: u.endpoint, Err: err}
	}
	// drain whatever is left so the connection can be reused
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		log.Debug("system %s: error draining response body: %v", systemID, err)
	}

	log.Debug("system %s: HTTP %d %s", systemID, resp.StatusCode, strings.TrimSpace(string(body)))

	return resp.StatusCode, nil
}
