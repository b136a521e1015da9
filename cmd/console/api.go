package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StartResponse matches the API start response structure
type StartResponse struct {
	Session   *encounter.Session `json:"session"`
	Resumable *encounter.Session `json:"resumable,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func getSession(client *http.Client, baseURL string) (*encounter.Session, error) {
	resp, err := client.Get(baseURL + "/v1/encounter")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get session: %s", errorResp.Error)
	}

	var session encounter.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &session, nil
}

func startSession(client *http.Client, baseURL string) (*StartResponse, error) {
	resp, err := client.Post(baseURL+"/v1/encounter/start", "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to start session: %s", errorResp.Error)
	}

	var startResp StartResponse
	if err := json.Unmarshal(body, &startResp); err != nil {
		return nil, fmt.Errorf("failed to parse start response: %w", err)
	}
	return &startResp, nil
}

// postCommand posts a JSON body to an encounter endpoint and returns the
// updated session. Most command endpoints share this shape.
func postCommand(client *http.Client, baseURL string, path string, reqBody interface{}) (*encounter.Session, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/encounter/"+path,
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s failed: %s", path, errorResp.Error)
	}

	var session encounter.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &session, nil
}

func sendAction(client *http.Client, baseURL string, action string) (*encounter.LogEntry, error) {
	reqBody := map[string]string{"action": action}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/encounter/action",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("action failed: %s", errorResp.Error)
	}

	var entry encounter.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w", err)
	}
	return &entry, nil
}

func concludeSession(client *http.Client, baseURL string, reason string) (string, error) {
	reqBody := map[string]string{"reason": reason}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/encounter/conclude",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("conclude failed: %s", errorResp.Error)
	}

	var concludeResp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(body, &concludeResp); err != nil {
		return "", fmt.Errorf("failed to parse conclude response: %w", err)
	}
	return concludeResp.Summary, nil
}
