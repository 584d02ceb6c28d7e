package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// open returns a reader for a local path or an http(s) URL.
func open(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: open %s", src)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: build request for %s", src)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: fetch %s", src)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Wrapf(fmt.Errorf("unexpected status %d", resp.StatusCode), "loader: fetch %s", src)
	}
	return resp.Body, nil
}
