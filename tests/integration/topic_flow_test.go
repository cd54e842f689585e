package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// TestTopicLifecycle drives the whole authoring flow against a running server:
// register -> login -> begin authoring -> save draft -> publish -> feed -> delete.
func TestTopicLifecycle(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	email := fmt.Sprintf("it_user_%d@example.com", time.Now().UnixNano())
	password := "Passw0rd!"
	device := "integration"

	// 1. Register
	registerReq := map[string]interface{}{
		"email":            email,
		"password":         password,
		"service_agreed":   true,
		"privacy_agreed":   true,
		"marketing_agreed": false,
	}
	if _, err := doJSON(client, http.MethodPost, baseURL+"/users/register", registerReq, nil, http.StatusOK); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 2. Login
	loginReq := map[string]interface{}{"email": email, "password": password}
	headers := map[string]string{"X-Device": device}
	loginResp, err := doJSON(client, http.MethodPost, baseURL+"/users/login", loginReq, headers, http.StatusOK)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	authed := map[string]string{
		"Authorization": "Bearer " + loginResp["access_token"].(string),
		"X-Device":      device,
	}

	// 3. Begin authoring: an empty row with an id.
	beginResp, err := doJSON(client, http.MethodPost, baseURL+"/topics", nil, authed, http.StatusOK)
	if err != nil {
		t.Fatalf("begin authoring failed: %v", err)
	}
	topicID := fmt.Sprintf("%.0f", beginResp["id"].(float64))
	topicURL := baseURL + "/topics/" + topicID

	// A status-less topic must not be in the public feed.
	if inFeed(t, client, baseURL, topicID) {
		t.Fatalf("unsaved topic %s visible in feed", topicID)
	}

	// 4. Save a draft.
	saveReq := map[string]interface{}{
		"title":  "Integration topic",
		"status": "temp",
		"content": []map[string]interface{}{
			{"type": "paragraph", "content": []map[string]string{{"type": "text", "text": "draft body"}}},
		},
	}
	if _, err := doJSON(client, http.MethodPut, topicURL, saveReq, authed, http.StatusOK); err != nil {
		t.Fatalf("save draft failed: %v", err)
	}
	if inFeed(t, client, baseURL, topicID) {
		t.Fatalf("draft topic %s visible in feed", topicID)
	}
	draftsResp, err := doJSON(client, http.MethodGet, baseURL+"/drafts", nil, authed, http.StatusOK)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if count := draftsResp["count"].(float64); count < 1 {
		t.Fatalf("expected at least one draft, got %v", count)
	}

	// 5. Publish.
	saveReq["status"] = "publish"
	saveReq["category"] = "hot-issue"
	if _, err := doJSON(client, http.MethodPut, topicURL, saveReq, authed, http.StatusOK); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !inFeed(t, client, baseURL, topicID) {
		t.Fatalf("published topic %s missing from feed", topicID)
	}

	// 6. Delete; the topic leaves the feed.
	if _, err := doJSON(client, http.MethodDelete, topicURL, nil, authed, http.StatusOK); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if inFeed(t, client, baseURL, topicID) {
		t.Fatalf("deleted topic %s still in feed", topicID)
	}

	// Deleting again reports not found, never a crash.
	if _, err := doJSON(client, http.MethodDelete, topicURL, nil, authed, http.StatusNotFound); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func inFeed(t *testing.T, client *http.Client, baseURL, topicID string) bool {
	t.Helper()
	resp, err := doJSON(client, http.MethodGet, baseURL+"/topics", nil, nil, http.StatusOK)
	if err != nil {
		t.Fatalf("list published failed: %v", err)
	}
	topics, _ := resp["topics"].([]interface{})
	for _, raw := range topics {
		card, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if fmt.Sprintf("%.0f", card["id"].(float64)) == topicID {
			return true
		}
	}
	return false
}

func doJSON(client *http.Client, method, url string, body interface{}, headers map[string]string, expectedStatus int) (map[string]interface{}, error) {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
