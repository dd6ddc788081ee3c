// sample implementation, do not build or test
//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type RegistrationRequest struct {
	PackageCode string  `json:"packageCode"`
	Phone       string  `json:"phone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsPickup    bool    `json:"isPickup,omitempty"`
}

type RegistrationResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Row       int    `json:"row"`
	Error     string `json:"error"`
}

type ListResponse struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Count   int              `json:"count"`
	Error   string           `json:"error"`
}

// Register posts a delivery confirmation. Validation failures come back
// as an error carrying the server's message.
func Register(baseURL string, r RegistrationRequest) (*RegistrationResponse, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := http.Post(baseURL+"/api/registrations", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var result RegistrationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("registration failed (%s): %s", resp.Status, result.Error)
	}

	return &result, nil
}

// ListRegistrations fetches every stored record. apiKey may be empty when
// the server does not require one.
func ListRegistrations(baseURL, apiKey string) (*ListResponse, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/registrations", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var result ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("list failed (%s): %s", resp.Status, result.Error)
	}

	return &result, nil
}

func main() {
	res, err := Register("http://localhost:5000", RegistrationRequest{
		PackageCode: "6123456789012",
		Phone:       "987 654 321",
		Latitude:    -12.05,
		Longitude:   -77.03,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("saved at row %d (%s)\n", res.Row, res.Timestamp)
}
