package erp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Document is one raw ERP document as decoded JSON.
type Document = map[string]any

type listResponse struct {
	Data []Document `json:"data"`
}

// maxPages bounds pagination against an ERP that ignores limit_start.
const maxPages = 200

// ListDocuments reads every document of a doctype, following limit_start pagination.
func (c Client) ListDocuments(ctx context.Context, doctype string) ([]Document, error) {
	doctype = strings.TrimSpace(doctype)
	if doctype == "" {
		return nil, fmt.Errorf("missing doctype")
	}
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}

	var out []Document
	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("fields", `["*"]`)
		q.Set("limit_start", strconv.Itoa(page*pageSize))
		q.Set("limit_page_length", strconv.Itoa(pageSize))

		var resp listResponse
		if err := c.doJSON(ctx, http.MethodGet, "/api/resource/"+url.PathEscape(doctype), q, nil, &resp); err != nil {
			return nil, fmt.Errorf("list %s: %w", doctype, err)
		}
		out = append(out, resp.Data...)
		if len(resp.Data) < pageSize {
			return out, nil
		}
	}
	return out, nil
}

// UpdateDocument writes fields onto one document. The ERP applies the same values
// idempotently, so repeating a request is harmless.
func (c Client) UpdateDocument(ctx context.Context, doctype, name string, fields map[string]any) error {
	doctype = strings.TrimSpace(doctype)
	name = strings.TrimSpace(name)
	if doctype == "" || name == "" {
		return fmt.Errorf("missing doctype or document name")
	}
	path := "/api/resource/" + url.PathEscape(doctype) + "/" + url.PathEscape(name)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, fields, nil); err != nil {
		return fmt.Errorf("update %s %s: %w", doctype, name, err)
	}
	return nil
}
