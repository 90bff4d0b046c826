// Package shopify provides the small slice of the Shopify Admin API the app
// needs: the install handshake, webhook registration and signature checks.
package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"repairdesk/internal/config"
)

// Webhook topics registered after install.
const (
	TopicAppUninstalled       = "app/uninstalled"
	TopicCustomersDataRequest = "customers/data_request"
	TopicCustomersRedact      = "customers/redact"
)

// AccessToken is the offline token returned by the OAuth code exchange.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// Client talks to a shop's Admin API.
type Client struct {
	apiKey     string
	apiSecret  string
	scopes     string
	apiVersion string
	httpClient *http.Client
	// baseURL maps a shop domain to its API origin.
	baseURL func(shop string) string
}

// NewClient creates a Shopify client from the app credentials.
func NewClient(cfg config.ShopifyConfig, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		scopes:     cfg.Scopes,
		apiVersion: cfg.APIVersion,
		httpClient: httpClient,
		baseURL:    func(shop string) string { return "https://" + shop },
	}
}

// Configured reports whether app credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiSecret != ""
}

// AuthorizeURL builds the install URL a merchant is redirected to.
func (c *Client) AuthorizeURL(shop, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", c.apiKey)
	q.Set("scope", c.scopes)
	q.Set("redirect_uri", redirectURI)
	return c.baseURL(shop) + "/admin/oauth/authorize?" + q.Encode()
}

// ExchangeToken trades an OAuth code for an offline access token.
func (c *Client) ExchangeToken(ctx context.Context, shop, code string) (*AccessToken, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     c.apiKey,
		"client_secret": c.apiSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL(shop)+"/admin/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exchanging code: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var token AccessToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("exchanging code: response carried no access token")
	}
	return &token, nil
}

// RegisterWebhook subscribes address to topic for the shop.
func (c *Client) RegisterWebhook(ctx context.Context, shop, accessToken, topic, address string) error {
	body, err := json.Marshal(map[string]any{
		"webhook": map[string]string{
			"topic":   topic,
			"address": address,
			"format":  "json",
		},
	})
	if err != nil {
		return fmt.Errorf("encoding webhook: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/api/%s/webhooks.json", c.baseURL(shop), c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registering webhook %s: %w", topic, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registering webhook %s: unexpected status %d", topic, resp.StatusCode)
	}
	return nil
}

// VerifyWebhook checks the base64 X-Shopify-Hmac-Sha256 header against the raw body.
func (c *Client) VerifyWebhook(body []byte, header string) bool {
	if c.apiSecret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	_, _ = mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(header)))
}

// VerifyQuery checks the hex hmac parameter Shopify appends to OAuth redirects.
// The message is every other parameter, sorted by key, joined as k=v with '&'.
func (c *Client) VerifyQuery(query url.Values) bool {
	given := query.Get("hmac")
	if c.apiSecret == "" || given == "" {
		return false
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(query[k], ","))
	}

	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	_, _ = mac.Write([]byte(strings.Join(parts, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(given)))
}
