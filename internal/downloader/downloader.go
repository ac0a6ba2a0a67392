package downloader

/*
Responsibilities (C4)

- Acquire the per-domain gate permit for the whole call, including
  the post-request politeness delay.
- Issue one GET with a fixed header profile through a pre-configured
  HTTP(S) proxy, with a caller-supplied PEM root bundle installed as
  trust anchors.
- Classify the outcome: 2xx is success; anything else — status or
  transport — is DownloadFailed. There is no retry at this layer.
*/

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/recipe-crawler/internal/domaingate"
)

const defaultUserAgent = "Prototype recipe search engine indexer"

// Downloader issues the crawler's one GET per URL.
type Downloader struct {
	client *http.Client
	gate   *domaingate.Gate
}

// Options configures the underlying transport: proxy and the root CA
// bundle trusted in addition to the system pool.
type Options struct {
	ProxyURL string
	CertFile string
	Timeout  time.Duration
}

// New builds a Downloader. A non-empty ProxyURL routes every request
// through it; a non-empty CertFile's PEM bundle is installed as
// additional trust anchors.
func New(opts Options, gate *domaingate.Gate) (*Downloader, error) {
	transport := &http.Transport{}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("downloader: invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if opts.CertFile != "" {
		pool, err := loadCertPool(opts.CertFile)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Downloader{
		client: &http.Client{Transport: transport, Timeout: timeout},
		gate:   gate,
	}, nil
}

func loadCertPool(certFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("downloader: read cert file %q: %w", certFile, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("downloader: no certificates parsed from %q", certFile)
	}
	return pool, nil
}

// Fetch downloads rawURL. It holds the domain gate permit for domain
// across the request and the post-delay, per spec.md §4.4.
func (d *Downloader) Fetch(ctx context.Context, rawURL, domain string) (Result, *Error) {
	if err := d.gate.Acquire(ctx, domain); err != nil {
		return Result{}, newError("failed to acquire domain permit for %q: %v", domain, err)
	}
	defer d.gate.Release(domain)

	return d.fetch(ctx, rawURL)
}

func (d *Downloader) fetch(ctx context.Context, rawURL string) (Result, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, newError("invalid request for %q: %v", rawURL, err)
	}
	applyHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, newError("request failed for %q: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, newError("non-2xx status %d for %q", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, newError("failed to read body for %q: %v", rawURL, err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, newError("invalid url %q: %v", rawURL, err)
	}

	return Result{
		url:         *u,
		body:        body,
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		fetchedAt:   time.Now(),
	}, nil
}

// applyHeaders sets the fixed header profile per spec.md §6, matching
// a regular top-level browser navigation.
func applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}
