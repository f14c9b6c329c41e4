// Package geocoder предоставляет клиент внешнего сервиса геокодирования.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/foodcart-system/internal/geo"
)

// Client инкапсулирует HTTP-взаимодействие с геокодером Яндекса.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент геокодера по указанному адресу и ключу API.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Resolve запрашивает координаты адреса у геокодера. Возвращает nil без
// ошибки, если ключ API не задан или геокодер не нашёл адрес. Берётся первый,
// наиболее релевантный результат.
func (c *Client) Resolve(ctx context.Context, address string) (*geo.Coordinates, error) {
	if c == nil || c.apiKey == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("geocode", address)
	q.Set("apikey", c.apiKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	members := result.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return nil, nil
	}

	return parsePos(members[0].GeoObject.Point.Pos)
}

// parsePos разбирает поле pos формата "<долгота> <широта>" и меняет порядок
// осей на внутренний (широта, долгота).
func parsePos(pos string) (*geo.Coordinates, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed pos %q", pos)
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", parts[0], err)
	}

	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", parts[1], err)
	}

	return &geo.Coordinates{Lat: lat, Lon: lon}, nil
}
