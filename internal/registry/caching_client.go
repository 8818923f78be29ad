package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// Doer is satisfied by *http.Client and CachingClient.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CachingClient keeps successful GET bodies on disk so a re-run of the same
// window does not hit the registry again.
type CachingClient struct {
	CacheDir string
	Client   Doer
}

func NewCachingClient(cacheDir string, client Doer) *CachingClient {
	return &CachingClient{
		CacheDir: cacheDir,
		Client:   client,
	}
}

func (c *CachingClient) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.Client.Do(req)
	}
	cachePath := filepath.Join(c.CacheDir, cacheKey(req.URL.String()))

	if cached, err := os.Open(cachePath); err == nil {
		return cachedResponse(req, make(http.Header), cached), nil
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return nil, err
	}
	// write to a temp file first so an interrupted copy never becomes a cache hit
	tmp, err := os.CreateTemp(c.CacheDir, "partial-*")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	tmp.Close()
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		return nil, err
	}
	log.Printf("cached response for %s to %s", req.URL.String(), cachePath)

	cached, err := os.Open(cachePath)
	if err != nil {
		return nil, err
	}
	return cachedResponse(req, resp.Header.Clone(), cached), nil
}

func cachedResponse(req *http.Request, h http.Header, body io.ReadCloser) *http.Response {
	return &http.Response{
		Request:       req,
		Header:        h,
		Body:          body,
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Proto:         "HTTP/1.1",
		ContentLength: -1,
	}
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
