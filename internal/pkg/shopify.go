package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	shopifyAPIVersion     = "2024-01"
	DefaultShopifyTimeout = 10 * time.Second
)

type ShopifyConfig struct {
	StoreDomain string
	AccessToken string
	Timeout     time.Duration
}

// Customer 只保留会员判定需要的字段
type Customer struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Tags        string `json:"tags"`
	State       string `json:"state"`
	OrdersCount int    `json:"orders_count"`
}

// FullName joins first and last name, skipping empty parts.
func (c Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// TagSet 小写、去空格后的标签列表
func (c Customer) TagSet() []string {
	var tags []string
	for _, t := range strings.Split(c.Tags, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ShopifyClient 只读查询 Admin API 的顾客目录
type ShopifyClient struct {
	cfg  ShopifyConfig
	http *http.Client
	// BaseURL 为空时使用 https://{StoreDomain}
	BaseURL string
}

func NewShopifyClient(cfg ShopifyConfig) *ShopifyClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultShopifyTimeout
	}
	return &ShopifyClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether both the store domain and access token are set.
func (c *ShopifyClient) Configured() bool {
	return c != nil && c.cfg.StoreDomain != "" && c.cfg.AccessToken != ""
}

func (c *ShopifyClient) SearchCustomersByEmail(ctx context.Context, email string) ([]Customer, error) {
	base := c.BaseURL
	if base == "" {
		base = "https://" + c.cfg.StoreDomain
	}
	endpoint := fmt.Sprintf("%s/admin/api/%s/customers/search.json?query=%s",
		strings.TrimRight(base, "/"), shopifyAPIVersion, url.QueryEscape("email:"+email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("shopify status %d", resp.StatusCode)
	}

	var body struct {
		Customers []Customer `json:"customers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("shopify decode: %w", err)
	}
	return body.Customers, nil
}
