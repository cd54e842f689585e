// Command-line stress test that drives the topic authoring lifecycle against a
// running API: register/login, begin authoring, concurrent saves racing the
// per-topic guard, publish, feed check. Produces a CSV report.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"topichub/config"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

var client = &http.Client{Timeout: 10 * time.Second}

type tokenPair struct {
	Access  string
	Refresh string
}

// persistResult records one concurrent save attempt for the report.
type persistResult struct {
	Worker    int
	TopicID   uint64
	Status    int
	ErrMsg    string
	Timestamp time.Time
}

// ======================= HTTP helpers =======================

func doJSON(method, url string, body any, headers map[string]string) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// ======================= Account helpers =======================

func registerUser(email, password string) error {
	body := map[string]any{
		"email":          email,
		"password":       password,
		"service_agreed": true,
		"privacy_agreed": true,
	}
	status, _, err := doJSON("POST", baseURL+"/users/register", body, nil)
	if err != nil {
		return err
	}
	if status != 200 && status != 400 { // 400 means the account already exists
		return fmt.Errorf("register status %d", status)
	}
	return nil
}

func loginUser(email, password, device string) (tokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	headers := map[string]string{"X-Device": device}
	status, data, err := doJSON("POST", baseURL+"/users/login", body, headers)
	if err != nil {
		return tokenPair{}, err
	}
	if status != 200 {
		return tokenPair{}, fmt.Errorf("login status %d body=%s", status, string(data))
	}
	var res map[string]string
	if err := json.Unmarshal(data, &res); err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: res["access_token"], Refresh: res["refresh_token"]}, nil
}

func authHeaders(access string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + access}
}

// ======================= Topic helpers =======================

func beginTopic(access string) (uint64, error) {
	status, data, err := doJSON("POST", baseURL+"/topics", nil, authHeaders(access))
	if err != nil {
		return 0, err
	}
	if status != 200 {
		return 0, fmt.Errorf("begin topic status %d body=%s", status, string(data))
	}
	var res struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func persistTopic(access string, id uint64, title, topicStatus string) (int, string) {
	body := map[string]any{
		"title":  title,
		"status": topicStatus,
		"content": []map[string]any{
			{"type": "paragraph", "content": []map[string]string{{"type": "text", "text": "stress body"}}},
		},
	}
	status, data, err := doJSON("PUT", fmt.Sprintf("%s/topics/%d", baseURL, id), body, authHeaders(access))
	if err != nil {
		return 0, err.Error()
	}
	if status != 200 {
		return status, string(data)
	}
	return status, ""
}

func feedContains(id uint64) (bool, error) {
	status, data, err := doJSON("GET", baseURL+"/topics", nil, nil)
	if err != nil || status != 200 {
		return false, fmt.Errorf("feed status %d err=%v", status, err)
	}
	var res struct {
		Topics []struct {
			ID uint64 `json:"id"`
		} `json:"topics"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return false, err
	}
	for _, tp := range res.Topics {
		if tp.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// ======================= Smoke test =======================

// lifecycleSmokeTest runs the full single-user flow once.
func lifecycleSmokeTest() error {
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano()%1000000)
	password := "SmokePwd123!"

	if err := registerUser(email, password); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	tokens, err := loginUser(email, password, "smoke-device")
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	id, err := beginTopic(tokens.Access)
	if err != nil {
		return err
	}

	if status, msg := persistTopic(tokens.Access, id, "smoke draft", "temp"); status != 200 {
		return fmt.Errorf("save draft status %d: %s", status, msg)
	}
	if in, err := feedContains(id); err != nil || in {
		return fmt.Errorf("draft leaked into feed (in=%v err=%v)", in, err)
	}

	if status, msg := persistTopic(tokens.Access, id, "smoke published", "publish"); status != 200 {
		return fmt.Errorf("publish status %d: %s", status, msg)
	}
	if in, err := feedContains(id); err != nil || !in {
		return fmt.Errorf("published topic missing from feed (in=%v err=%v)", in, err)
	}

	status, _, err := doJSON("DELETE", fmt.Sprintf("%s/topics/%d", baseURL, id), nil, authHeaders(tokens.Access))
	if err != nil || status != 200 {
		return fmt.Errorf("delete status %d err=%v", status, err)
	}

	log.Println("lifecycle smoke test passed: begin/save/publish/feed/delete verified")
	return nil
}

// ======================= Concurrent persist stress =======================

// concurrentPersistTest fires workers saves at the same topic id and records
// how many were accepted vs rejected by the in-flight guard (409).
func concurrentPersistTest(workers int, outCSV string) error {
	config.InitConfig("../../")
	config.InitRedis()
	_ = config.RedisClient.FlushDB(config.RedisClient.Context())

	email := fmt.Sprintf("stress-%d@example.com", time.Now().UnixNano()%1000000)
	password := "StressPwd123!"
	if err := registerUser(email, password); err != nil {
		return err
	}
	tokens, err := loginUser(email, password, "stress-device")
	if err != nil {
		return err
	}
	id, err := beginTopic(tokens.Access)
	if err != nil {
		return err
	}

	results := make(chan persistResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			status, msg := persistTopic(tokens.Access, id, fmt.Sprintf("stress save %d", worker), "temp")
			results <- persistResult{Worker: worker, TopicID: id, Status: status, ErrMsg: msg, Timestamp: time.Now()}
		}(i)
	}
	wg.Wait()
	close(results)

	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"Worker", "TopicID", "Status", "ErrMessage", "Timestamp"})

	var ok, rejected, other int
	for res := range results {
		switch res.Status {
		case 200:
			ok++
		case 409:
			rejected++
		default:
			other++
		}
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", res.Worker),
			fmt.Sprintf("%d", res.TopicID),
			fmt.Sprintf("%d", res.Status),
			res.ErrMsg,
			res.Timestamp.Format(time.RFC3339Nano),
		})
	}

	log.Printf("concurrent persist: %d accepted, %d rejected by in-flight guard, %d other\n", ok, rejected, other)
	if ok == 0 {
		return fmt.Errorf("no persist succeeded")
	}
	if other > 0 {
		return fmt.Errorf("%d persists failed with unexpected statuses", other)
	}
	return nil
}

func main() {
	if err := lifecycleSmokeTest(); err != nil {
		log.Fatalf("smoke test failed: %v", err)
	}
	if err := concurrentPersistTest(20, "persist_stress.csv"); err != nil {
		log.Fatalf("concurrent persist test failed: %v", err)
	}
	log.Println("all topic lifecycle checks passed")
}
