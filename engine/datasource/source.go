package datasource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// fetchURL downloads a remote primary argument. The body is streamed
// so the size bound cuts the transfer off, not just the result.
func (d *ReaderDatasource) fetchURL(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	raw := resp.RawBody()
	defer raw.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch %q: status %d", url, resp.StatusCode())
	}
	reader := io.Reader(raw)
	if d.maxFetch > 0 {
		reader = io.LimitReader(raw, d.maxFetch+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	if d.maxFetch > 0 && int64(len(body)) > d.maxFetch {
		return nil, fmt.Errorf("response from %q exceeds %d bytes", url, d.maxFetch)
	}
	return body, nil
}

// readSource resolves a primary argument into raw bytes. Strings are
// treated as URLs or paths; byte slices and readers are consumed
// directly.
func (d *ReaderDatasource) readSource(ctx context.Context, primary any) ([]byte, error) {
	switch src := primary.(type) {
	case nil:
		return nil, fmt.Errorf("no data source supplied")
	case []byte:
		return src, nil
	case io.Reader:
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		return data, nil
	case string:
		if isURL(src) {
			return d.fetchURL(ctx, src)
		}
		return afero.ReadFile(d.fs, src)
	default:
		return nil, fmt.Errorf("unsupported primary argument type %T", primary)
	}
}

// readSourceLenient behaves like readSource but falls back to treating
// an unreadable string as literal content. Loaders whose primary
// argument may be free-form text (JSON, YAML, HTML markup) use this.
func (d *ReaderDatasource) readSourceLenient(ctx context.Context, primary any) ([]byte, error) {
	data, err := d.readSource(ctx, primary)
	if err == nil {
		return data, nil
	}
	if s, ok := primary.(string); ok && !isURL(s) {
		if exists, _ := afero.Exists(d.fs, s); !exists {
			return []byte(s), nil
		}
	}
	return nil, err
}
