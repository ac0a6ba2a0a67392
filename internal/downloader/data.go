package downloader

import (
	"net/url"
	"time"
)

// Result is the Downloader's (C4) successful outcome: the response
// body plus enough metadata for the Extractor and for Frontier
// bookkeeping (content_size).
type Result struct {
	url         url.URL
	body        []byte
	statusCode  int
	contentType string
	fetchedAt   time.Time
}

func (r Result) URL() url.URL         { return r.url }
func (r Result) Body() []byte         { return r.body }
func (r Result) StatusCode() int      { return r.statusCode }
func (r Result) ContentType() string  { return r.contentType }
func (r Result) FetchedAt() time.Time { return r.fetchedAt }
func (r Result) SizeByte() uint64     { return uint64(len(r.body)) }
