package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// StatusError is returned when hh.ru answers with anything but 200 OK.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hh.ru responded %s for %s", e.Status, e.URL)
}

// listPage is one page of a paginated hh.ru collection.
type listPage struct {
	Items   []map[string]any `json:"items"`
	Found   int              `json:"found"`
	Pages   int              `json:"pages"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// listAll walks every page of the collection at endpoint and returns the raw
// items in page order.
func (c *Client) listAll(ctx context.Context, endpoint string, q url.Values) ([]map[string]any, error) {
	if q == nil {
		q = url.Values{}
	}

	var items []map[string]any
	for pageNum := 0; ; pageNum++ {
		q.Set("page", strconv.Itoa(pageNum))

		var page listPage
		if err := c.get(ctx, endpoint, q, &page); err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		if pageNum == 0 {
			c.logger.Debug("hh.ru collection size",
				zap.Int("found", page.Found),
				zap.Int("pages", page.Pages),
				zap.Int("per_page", page.PerPage),
			)
		}
		items = append(items, page.Items...)

		if page.Page+1 >= page.Pages || len(page.Items) == 0 {
			return items, nil
		}
	}
}

// get performs a rate-limited GET and decodes the JSON body into target.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}
	c.setHeaders(req)

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: req.URL.Path}
	}

	body, err := decodedBody(resp)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("decoding %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
}

// decodedBody unwraps a gzip body. Setting Accept-Encoding by hand disables
// the transport's transparent decompression.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return io.NopCloser(resp.Body), nil
	}
	return gzip.NewReader(resp.Body)
}
