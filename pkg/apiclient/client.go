// Package apiclient is a typed HTTP client for the storefront REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) SetToken(token string) { c.token = token }
func (c *Client) Token() string         { return c.token }

type Product struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     *string   `json:"image"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// APIError carries the server's {message} body alongside the status code so
// callers can surface it to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: body.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result LoginResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Verify checks the held token against the server. An invalid or expired
// token is not an error; it reports valid=false so the caller can discard it.
func (c *Client) Verify(ctx context.Context) (*UserSummary, bool, error) {
	var result struct {
		Valid bool        `json:"valid"`
		User  UserSummary `json:"user"`
	}
	if err := c.getJSON(ctx, "/api/auth/verify", &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &result.User, result.Valid, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var items []Product
	if err := c.getJSON(ctx, "/api/products", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var item Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/products/%d", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	var items []Product
	if err := c.getJSON(ctx, "/api/products/search/"+query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type productResponse struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

// CreateProduct submits the multipart add-product form. imagePath may be
// empty for a product without an image.
func (c *Client) CreateProduct(ctx context.Context, name string, price float64, imagePath string) (*Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return nil, err
	}
	if err := w.WriteField("price", strconv.FormatFloat(price, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if imagePath != "" {
		if err := attachImage(w, imagePath); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/products", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result productResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result.Product, nil
}

type UpdateProductParams struct {
	Name      *string
	Price     *float64
	Available *bool
	ImagePath string
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, params UpdateProductParams) (*Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if params.Name != nil {
		if err := w.WriteField("name", *params.Name); err != nil {
			return nil, err
		}
	}
	if params.Price != nil {
		if err := w.WriteField("price", strconv.FormatFloat(*params.Price, 'f', -1, 64)); err != nil {
			return nil, err
		}
	}
	if params.Available != nil {
		if err := w.WriteField("available", strconv.FormatBool(*params.Available)); err != nil {
			return nil, err
		}
	}
	if params.ImagePath != "" {
		if err := attachImage(w, params.ImagePath); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/api/products/%d", c.baseURL, id), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result productResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result.Product, nil
}

func (c *Client) ToggleAvailability(ctx context.Context, id uint) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, fmt.Sprintf("%s/api/products/%d/toggle", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var result productResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

func attachImage(w *multipart.Writer, imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename="%s"`, filepath.Base(imagePath)))
	h.Set("Content-Type", imageContentType(imagePath))

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return nil
}

func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
