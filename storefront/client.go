// Package storefront drives the DendyFood API on behalf of the customer
// storefront and the admin panel.
package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dendyfood/dendyfood-api/models"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 15 * time.Second

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// OrderLine is one submitted order line, priced as shown to the customer.
type OrderLine struct {
	FoodItemID uint         `json:"foodItemId"`
	Quantity   int          `json:"quantity"`
	Price      models.Money `json:"price"`
}

type OrderRequest struct {
	TotalPrice    models.Money         `json:"totalPrice"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Items         []OrderLine          `json:"items"`
}

// FoodItemRequest is the admin create/update payload. Price travels as text.
type FoodItemRequest struct {
	NameUz      string          `json:"nameUz"`
	NameRu      string          `json:"nameRu"`
	Description *string         `json:"description,omitempty"`
	Price       string          `json:"price"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Category    models.Category `json:"category"`
	Available   *bool           `json:"available,omitempty"`
}

type LoginResult struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MenuResult is a menu listing; Cached is set when the API served its own snapshot.
type MenuResult struct {
	Items  []models.FoodItem
	Cached bool
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

func (c *Client) FoodItems(ctx context.Context) (MenuResult, error) {
	var items []models.FoodItem
	resp, err := c.request(ctx, "").SetResult(&items).Get("/api/food-items")
	if err := checkResponse(resp, err); err != nil {
		return MenuResult{}, err
	}
	return MenuResult{Items: items, Cached: resp.Header().Get("X-Menu-Snapshot") == "cached"}, nil
}

// CreateOrder submits an order. A non-empty idempotencyKey makes resubmission safe.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest, idempotencyKey string) (models.Order, error) {
	var created models.Order
	req := c.request(ctx, "").SetBody(order).SetResult(&created)
	if idempotencyKey != "" {
		req.SetHeader("Idempotency-Key", idempotencyKey)
	}
	resp, err := req.Post("/api/orders")
	if err := checkResponse(resp, err); err != nil {
		return models.Order{}, err
	}
	return created, nil
}

func (c *Client) Orders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	resp, err := c.request(ctx, token).SetResult(&orders).Get("/api/orders")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var result LoginResult
	resp, err := c.request(ctx, "").
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&result).
		Post("/api/admin/login")
	if err := checkResponse(resp, err); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (c *Client) CreateFoodItem(ctx context.Context, token string, item FoodItemRequest) (models.FoodItem, error) {
	var created models.FoodItem
	resp, err := c.request(ctx, token).SetBody(item).SetResult(&created).Post("/api/food-items")
	if err := checkResponse(resp, err); err != nil {
		return models.FoodItem{}, err
	}
	return created, nil
}

func (c *Client) UpdateFoodItem(ctx context.Context, token string, id uint, item FoodItemRequest) (models.FoodItem, error) {
	var updated models.FoodItem
	resp, err := c.request(ctx, token).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetBody(item).
		SetResult(&updated).
		Put("/api/food-items/{id}")
	if err := checkResponse(resp, err); err != nil {
		return models.FoodItem{}, err
	}
	return updated, nil
}

func (c *Client) DeleteFoodItem(ctx context.Context, token string, id uint) error {
	resp, err := c.request(ctx, token).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Delete("/api/food-items/{id}")
	return checkResponse(resp, err)
}

// UploadImage sends an image file and returns the URL it is served from.
func (c *Client) UploadImage(ctx context.Context, token, filename string, image io.Reader) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	resp, err := c.request(ctx, token).
		SetFileReader("image", filename, image).
		SetResult(&result).
		Post("/api/upload")
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return result.URL, nil
}
