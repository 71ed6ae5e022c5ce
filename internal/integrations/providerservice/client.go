package providerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client клиент каталога провайдеров
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога провайдеров
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProvider получает провайдера по ID
func (c *Client) GetProvider(ctx context.Context, providerID string) (*Provider, error) {
	endpoint := fmt.Sprintf("%s/internal/providers/%s", c.baseURL, url.PathEscape(providerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrProviderNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var provider Provider
	if err := json.NewDecoder(resp.Body).Decode(&provider); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &provider, nil
}

// GetProviderWithGracefulDegradation получает провайдера с graceful degradation
// ErrProviderNotFound пробрасывается как есть, любые другие ошибки превращаются в ErrServiceDegraded
func (c *Client) GetProviderWithGracefulDegradation(ctx context.Context, providerID string) (*Provider, error) {
	c.log.Info("Fetching provider id=%s", providerID)

	provider, err := c.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			c.log.Warn("Provider id=%s not found in directory", providerID)
			return nil, err
		}

		c.log.Error("ProviderService unavailable, applying graceful degradation for provider id=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: provider id=%s, error=%v", ErrServiceDegraded, providerID, err)
	}

	c.log.Info("Successfully fetched provider id=%s, name=%s", providerID, provider.Name)
	return provider, nil
}
