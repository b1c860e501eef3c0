// Package download fetches media payloads over HTTP.
//
// Timeout policy: connecting is bounded, and the body read is bounded per
// read rather than overall, so a large video on a slow link can finish while
// a stalled socket still gets cut. One GET per item, no retries.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
)

// Result is a fetched payload plus the content type the server declared.
type Result struct {
	Body        []byte
	ContentType string
}

// Downloader fetches single items using a shared HTTP client.
type Downloader struct {
	client      *http.Client
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewClient builds the shared HTTP client: bounded connect, bounded wait for
// response headers, no overall deadline, and a connection pool sized to the
// worker count so workers do not queue behind each other's sockets.
func NewClient(connectTimeout, readTimeout time.Duration, poolSize int) *http.Client {
	if poolSize < 1 {
		poolSize = 1
	}
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          poolSize,
		MaxIdleConnsPerHost:   poolSize,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// New constructs a Downloader around an injected client. readTimeout bounds
// each individual body read.
func New(client *http.Client, readTimeout time.Duration, logger *slog.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if readTimeout <= 0 {
		readTimeout = 300 * time.Second
	}
	return &Downloader{
		client:      client,
		readTimeout: readTimeout,
		logger:      logging.NewComponentLogger(logger, "downloader"),
	}
}

// Fetch issues one GET for url and returns the full payload. Any non-200
// response is a failure; the item is skipped and nothing is written.
func (d *Downloader) Fetch(ctx context.Context, url string) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	started := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := d.readAll(resp.Body, cancel)
	if err != nil {
		return Result{}, fmt.Errorf("read body: %w", err)
	}

	d.logger.Debug("fetched item",
		logging.String(logging.FieldURL, url),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(started)),
	)

	return Result{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// readAll drains the body under an idle deadline: the timer is rearmed after
// every successful read and cancels the request context when a single read
// stalls past the limit.
func (d *Downloader) readAll(body io.Reader, cancel context.CancelFunc) ([]byte, error) {
	idle := time.AfterFunc(d.readTimeout, cancel)
	defer idle.Stop()

	var out []byte
	buf := make([]byte, 64*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
			idle.Reset(d.readTimeout)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
