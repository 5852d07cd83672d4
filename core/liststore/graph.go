package liststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Graph talks to the REST list API.
type Graph struct {
	http     *http.Client
	baseURL  string
	siteID   string
	siteHost string
	sitePath string
	limiter  *rate.Limiter
}

// NewGraph creates a Graph client based on the configuration.
func NewGraph(cfg Config) (*Graph, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("list store base url is required")
	}
	if cfg.SiteID == "" && cfg.SiteHost == "" {
		return nil, fmt.Errorf("either site id or site host must be configured")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	base := &http.Client{
		Timeout: timeoutDuration,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeoutDuration,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeoutDuration,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: timeoutDuration,
		},
	}

	client := base
	if cfg.ClientID != "" {
		tokenURL := cfg.TokenURL
		if tokenURL == "" {
			tokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{scopeFor(cfg.BaseURL)},
		}
		// The token source reuses the tuned transport for token requests too.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = cc.Client(ctx)
		client.Timeout = timeoutDuration
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Graph{
		http:     client,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		siteID:   cfg.SiteID,
		siteHost: cfg.SiteHost,
		sitePath: cfg.SitePath,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// scopeFor derives the .default scope from the API root (scheme + host).
func scopeFor(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "https://graph.microsoft.com/.default"
	}
	return u.Scheme + "://" + u.Host + "/.default"
}

// ResolveContainer returns the configured site id, looking it up by host and path when needed.
func (g *Graph) ResolveContainer(ctx context.Context) (string, error) {
	if g.siteID != "" {
		return g.siteID, nil
	}

	path := "/sites/" + g.siteHost
	if p := strings.Trim(g.sitePath, "/"); p != "" {
		path += ":/" + p
	}

	var site struct {
		ID string `json:"id"`
	}
	if err := g.do(ctx, "resolve site", "", http.MethodGet, g.baseURL+path, nil, &site); err != nil {
		return "", err
	}
	if site.ID == "" {
		return "", &Error{Op: "resolve site", StatusCode: http.StatusNotFound, Message: "site " + g.siteHost + g.sitePath + " returned no id"}
	}
	return site.ID, nil
}

// FetchColumns returns the column metadata of a list.
func (g *Graph) FetchColumns(ctx context.Context, containerID, listID string) ([]Column, error) {
	var page struct {
		Value []Column `json:"value"`
	}
	if err := g.do(ctx, "fetch columns", listID, http.MethodGet, g.listURL(containerID, listID)+"/columns", nil, &page); err != nil {
		return nil, err
	}
	return page.Value, nil
}

// QueryItems returns every item matching filter, following pagination links.
func (g *Graph) QueryItems(ctx context.Context, containerID, listID string, filter Filter) ([]Item, error) {
	q := url.Values{}
	q.Set("expand", "fields")
	q.Set("$top", "999")
	if len(filter) > 0 {
		q.Set("$filter", filter.OData())
	}
	next := g.listURL(containerID, listID) + "/items?" + q.Encode()

	var items []Item
	for next != "" {
		var page struct {
			Value    []Item `json:"value"`
			NextLink string `json:"@odata.nextLink"`
		}
		if err := g.do(ctx, "query items", listID, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Value...)
		next = page.NextLink
	}
	return items, nil
}

// GetItem returns one item with its fields.
func (g *Graph) GetItem(ctx context.Context, containerID, listID, itemID string) (Item, error) {
	var item Item
	u := g.listURL(containerID, listID) + "/items/" + url.PathEscape(itemID) + "?expand=fields"
	if err := g.do(ctx, "get item", listID, http.MethodGet, u, nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// CreateItem creates an item with the given fields.
func (g *Graph) CreateItem(ctx context.Context, containerID, listID string, fields map[string]any) (string, error) {
	var created Item
	body := map[string]any{"fields": fields}
	if err := g.do(ctx, "create item", listID, http.MethodPost, g.listURL(containerID, listID)+"/items", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// PatchItem updates fields of an existing item.
func (g *Graph) PatchItem(ctx context.Context, containerID, listID, itemID string, fields map[string]any) error {
	u := g.listURL(containerID, listID) + "/items/" + url.PathEscape(itemID) + "/fields"
	return g.do(ctx, "patch item", listID, http.MethodPatch, u, fields, nil)
}

// DeleteItem removes an item.
func (g *Graph) DeleteItem(ctx context.Context, containerID, listID, itemID string) error {
	u := g.listURL(containerID, listID) + "/items/" + url.PathEscape(itemID)
	return g.do(ctx, "delete item", listID, http.MethodDelete, u, nil, nil)
}

func (g *Graph) listURL(containerID, listID string) string {
	return g.baseURL + "/sites/" + url.PathEscape(containerID) + "/lists/" + url.PathEscape(listID)
}

// do performs one paced JSON call and decodes the answer into out when out is non-nil.
func (g *Graph) do(ctx context.Context, op, list, method, u string, in, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", op, list, err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode payload: %w", op, list, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, list, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Date-window filters run on non-indexed columns.
	req.Header.Set("Prefer", "HonorNonIndexedQueriesWarningMayFailRandomly")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, list, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", op, list, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, list, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", op, list, err)
	}
	return nil
}

// decodeError reads the remote error envelope {"error":{"code","message"}}.
func decodeError(op, list string, status int, raw []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	e := &Error{Op: op, List: list, StatusCode: status}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		e.Code = envelope.Error.Code
		e.Message = envelope.Error.Message
	} else {
		e.Message = strings.TrimSpace(string(raw))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	return e
}
