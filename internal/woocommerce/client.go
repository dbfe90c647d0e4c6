package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("woocommerce config invalid")
	ErrRequestFailed   = errors.New("woocommerce request failed")
	ErrResponseInvalid = errors.New("woocommerce response invalid")
	ErrNotFound        = errors.New("woocommerce resource not found")
)

const (
	apiPrefix       = "/wp-json/wc/v3"
	defaultPerPage  = 100
	maxPerPage      = 100
	defaultTimeout  = 20 * time.Second
	totalPagesField = "X-WP-TotalPages"
)

// Config WooCommerce REST 接口配置。
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	PerPage        int
	Timeout        time.Duration
}

// Image 商品图片。
type Image struct {
	Src string `json:"src"`
}

// Category 商品分类引用。
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Attribute 商品属性，变体使用 option，父商品使用 options。
type Attribute struct {
	Name    string   `json:"name"`
	Option  string   `json:"option"`
	Options []string `json:"options"`
}

// Product 商品或变体的远端表示。
type Product struct {
	ID            int64       `json:"id"`
	ParentID      int64       `json:"parent_id"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Status        string      `json:"status"`
	SKU           string      `json:"sku"`
	RegularPrice  string      `json:"regular_price"`
	SalePrice     string      `json:"sale_price"`
	StockQuantity *int        `json:"stock_quantity"`
	Weight        string      `json:"weight"`
	Images        []Image     `json:"images"`
	Image         *Image      `json:"image"`
	Categories    []Category  `json:"categories"`
	Attributes    []Attribute `json:"attributes"`
}

// Page 一页商品结果。
type Page struct {
	Items      []Product
	Page       int
	TotalPages int
}

// HasNext 是否还有下一页。
func (p *Page) HasNext(perPage int) bool {
	if p == nil || len(p.Items) == 0 {
		return false
	}
	if p.TotalPages > 0 {
		return p.Page < p.TotalPages
	}
	return len(p.Items) >= perPage
}

// Client WooCommerce REST 客户端。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端。
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.BaseURL)); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" {
		return fmt.Errorf("%w: consumer_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return fmt.Errorf("%w: consumer_secret is required", ErrConfigInvalid)
	}
	return nil
}

// PerPage 实际分页大小。
func (c *Client) PerPage() int {
	return c.cfg.PerPage
}

// ListProducts 拉取一页商品。
func (c *Client) ListProducts(ctx context.Context, page int) (*Page, error) {
	return c.listPage(ctx, "/products", page)
}

// ListVariations 拉取某个可变商品的一页变体。
func (c *Client) ListVariations(ctx context.Context, parentID int64, page int) (*Page, error) {
	result, err := c.listPage(ctx, fmt.Sprintf("/products/%d/variations", parentID), page)
	if err != nil {
		return nil, err
	}
	for idx := range result.Items {
		if result.Items[idx].ParentID == 0 {
			result.Items[idx].ParentID = parentID
		}
	}
	return result, nil
}

// GetProduct 获取单个商品。
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.getOne(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVariation 获取单个变体。
func (c *Client) GetVariation(ctx context.Context, parentID, id int64) (*Product, error) {
	var product Product
	if err := c.getOne(ctx, fmt.Sprintf("/products/%d/variations/%d", parentID, id), &product); err != nil {
		return nil, err
	}
	if product.ParentID == 0 {
		product.ParentID = parentID
	}
	return &product, nil
}

func (c *Client) listPage(ctx context.Context, endpoint string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.cfg.PerPage))

	body, header, status, err := c.doGet(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: list %s status %d", ErrRequestFailed, endpoint, status)
	}

	var items []Product
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s failed", ErrResponseInvalid, endpoint)
	}
	totalPages, _ := strconv.Atoi(strings.TrimSpace(header.Get(totalPagesField)))
	return &Page{Items: items, Page: page, TotalPages: totalPages}, nil
}

func (c *Client) getOne(ctx context.Context, endpoint string, out interface{}) error {
	body, _, status, err := c.doGet(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: get %s status %d", ErrRequestFailed, endpoint, status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s failed", ErrResponseInvalid, endpoint)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, endpoint string, query url.Values) ([]byte, http.Header, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	target := c.cfg.BaseURL + apiPrefix + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: http request failed: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return body, resp.Header, resp.StatusCode, nil
}

func (c *Client) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.ConsumerKey = strings.TrimSpace(c.ConsumerKey)
	c.ConsumerSecret = strings.TrimSpace(c.ConsumerSecret)
	if c.PerPage <= 0 {
		c.PerPage = defaultPerPage
	}
	if c.PerPage > maxPerPage {
		c.PerPage = maxPerPage
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}
