package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// Response is a fetched or cached asset.
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher performs a live fetch of an asset URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// ErrOffline is returned by fetchers that cannot reach the asset.
var ErrOffline = errors.New("network unavailable")

// HTTPFetcher fetches absolute URLs over the network.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrOffline, url, err)
	}

	header := make(http.Header)
	for _, key := range []string{"Content-Type", "Cache-Control", "Etag", "Last-Modified"} {
		if v := resp.Header.Get(key); v != "" {
			header.Set(key, v)
		}
	}

	return &Response{URL: url, Status: resp.StatusCode, Header: header, Body: body}, nil
}

// FSFetcher serves the local "./..." assets from a file system.
type FSFetcher struct {
	fsys fs.FS
}

func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

func (f *FSFetcher) Fetch(_ context.Context, url string) (*Response, error) {
	name := strings.TrimPrefix(url, "./")
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}

	body, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return &Response{URL: url, Status: http.StatusNotFound, Header: http.Header{}}, nil
	}
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		header.Set("Content-Type", ctype)
	}
	return &Response{URL: url, Status: http.StatusOK, Header: header, Body: body}, nil
}

// RouteFetcher sends relative URLs to local and absolute ones to remote.
type RouteFetcher struct {
	local  Fetcher
	remote Fetcher
}

func NewRouteFetcher(local, remote Fetcher) *RouteFetcher {
	return &RouteFetcher{local: local, remote: remote}
}

func (f *RouteFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	if strings.HasPrefix(url, "./") {
		return f.local.Fetch(ctx, url)
	}
	return f.remote.Fetch(ctx, url)
}
