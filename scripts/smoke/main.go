package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Drives a running API through the full disciplinary workflow against the
// seeded demo data: admin login, case creation, student appeal, admin review.
// Exits non-zero on the first failed step.

type step struct {
	Name     string
	Method   string
	Path     string
	UserID   string
	Body     interface{}
	Expect   int
	Capture  func(data map[string]interface{}) error
	Duration time.Duration
	Error    error
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API path prefix")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	var caseID, appealID string

	steps := []*step{
		{
			Name:   "admin login",
			Method: http.MethodPost,
			Path:   "/auth/login",
			Body:   map[string]string{"email": "admin@example.com", "password": "password", "role": "admin"},
			Expect: http.StatusOK,
		},
		{
			Name:   "list users as admin",
			Method: http.MethodGet,
			Path:   "/users",
			UserID: "user-4",
			Expect: http.StatusOK,
		},
		{
			Name:   "create case as admin",
			Method: http.MethodPost,
			Path:   "/cases",
			UserID: "user-4",
			Body: map[string]string{
				"studentId":   "user-2",
				"date":        time.Now().UTC().Format("2006-01-02"),
				"reason":      "Smoke test incident",
				"actionTaken": "Smoke test action",
			},
			Expect: http.StatusCreated,
			Capture: func(data map[string]interface{}) error {
				id, _ := data["id"].(string)
				if id == "" {
					return fmt.Errorf("no case id in response")
				}
				caseID = id
				return nil
			},
		},
		{
			Name:   "student sees own case",
			Method: http.MethodGet,
			Path:   "/cases",
			UserID: "user-2",
			Expect: http.StatusOK,
		},
		{
			Name:   "student submits appeal",
			Method: http.MethodPost,
			Path:   "/appeals",
			UserID: "user-2",
			Body: func() interface{} {
				return map[string]string{
					"disciplinaryActionId": caseID,
					"appealReason":         "Smoke test appeal",
					"appealDate":           time.Now().UTC().Format("2006-01-02"),
				}
			},
			Expect: http.StatusCreated,
			Capture: func(data map[string]interface{}) error {
				appeal, _ := data["appeal"].(map[string]interface{})
				id, _ := appeal["id"].(string)
				if id == "" {
					return fmt.Errorf("no appeal id in response")
				}
				appealID = id
				return nil
			},
		},
		{
			Name:   "admin reviews appeal",
			Method: http.MethodPut,
			Path:   "/appeals/{appealId}/review",
			UserID: "user-4",
			Body:   map[string]string{"status": "Approved"},
			Expect: http.StatusOK,
		},
		{
			Name:   "admin deletes case",
			Method: http.MethodDelete,
			Path:   "/cases/{caseId}",
			UserID: "user-4",
			Expect: http.StatusNoContent,
		},
	}

	failed := 0
	for _, s := range steps {
		runStep(client, strings.TrimRight(base, "/")+prefix, s, &caseID, &appealID)
		if s.Error != nil {
			failed++
			printStep(s)
			break
		}
		printStep(s)
	}

	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println("All steps passed.")
}

func runStep(client *http.Client, base string, s *step, caseID, appealID *string) {
	path := strings.ReplaceAll(s.Path, "{caseId}", *caseID)
	path = strings.ReplaceAll(path, "{appealId}", *appealID)

	body := s.Body
	if fn, ok := body.(func() interface{}); ok {
		body = fn()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			s.Error = fmt.Errorf("marshal body: %w", err)
			return
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(s.Method, base+path, reader)
	if err != nil {
		s.Error = err
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.UserID != "" {
		req.Header.Set("X-User-ID", s.UserID)
	}

	start := time.Now()
	resp, err := client.Do(req)
	s.Duration = time.Since(start)
	if err != nil {
		s.Error = err
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != s.Expect {
		raw, _ := io.ReadAll(resp.Body)
		s.Error = fmt.Errorf("expected %d, got %d: %s", s.Expect, resp.StatusCode, strings.TrimSpace(string(raw)))
		return
	}

	if s.Capture == nil {
		return
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		s.Error = fmt.Errorf("decode response: %w", err)
		return
	}
	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		s.Error = fmt.Errorf("decode data: %w", err)
		return
	}
	s.Error = s.Capture(data)
}

func printStep(s *step) {
	status := "OK"
	if s.Error != nil {
		status = "FAIL"
	}
	fmt.Printf("[%s] %s (%s %s, %s)\n", status, s.Name, s.Method, s.Path, s.Duration)
	if s.Error != nil {
		fmt.Printf("  Error: %v\n", s.Error)
	}
}
