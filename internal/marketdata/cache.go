package marketdata

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// diskCache caches HTTP responses on disk. The cache key includes the
// current day, so entries expire at midnight and the next run refetches.
type diskCache struct {
	dir  string
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("eod-%x", sha1.Sum([]byte(c.key(req))))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	// cache write errors are ignored, the response is still usable
	_ = c.put(key, resp)
	return resp, nil
}

func (c *diskCache) key(req *http.Request) string {
	return fmt.Sprintf("%s %s %s", time.Now().UTC().Format("2006-01-02"), req.Method, req.URL.String())
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.cacheDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.cacheDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.cacheDir(), key), content, 0o644)
}

func (c *diskCache) cacheDir() string {
	if c.dir != "" {
		return c.dir
	}
	return os.TempDir()
}
