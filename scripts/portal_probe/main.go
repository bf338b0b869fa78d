// Command portal_probe signs in against a running portal gateway and walks
// the page endpoints, reporting status per target. Used as a deploy smoke
// check.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/api/v1/auth/me", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/dashboard", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/grades", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/schedule/timetable"},
	{Method: http.MethodGet, Path: "/api/v1/schedule/exams"},
	{Method: http.MethodGet, Path: "/api/v1/materials"},
	{Method: http.MethodGet, Path: "/api/v1/finance"},
	{Method: http.MethodGet, Path: "/api/v1/profile"},
	{Method: http.MethodGet, Path: "/api/v1/assistant/messages"},
}

func main() {
	var (
		base        string
		nationalID  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "portal API base URL")
	flag.StringVar(&nationalID, "national-id", "", "national id to sign in with")
	flag.StringVar(&targetsPath, "targets", "", "optional JSON file with targets to probe")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if nationalID == "" {
		log.Fatal("-national-id is required")
	}

	targets := defaultTargets
	if targetsPath != "" {
		raw, err := os.ReadFile(targetsPath)
		if err != nil {
			log.Fatalf("read targets: %v", err)
		}
		if err := json.Unmarshal(raw, &targets); err != nil {
			log.Fatalf("parse targets: %v", err)
		}
	}

	client := &http.Client{Timeout: timeout}

	token, err := login(client, base, nationalID)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	failures := 0
	for _, tg := range targets {
		status, err := probe(client, base, token, tg)
		switch {
		case err != nil:
			fmt.Printf("FAIL  %-6s %-40s %v\n", tg.Method, tg.Path, err)
			if tg.Critical {
				failures++
			}
		case status >= 400:
			fmt.Printf("FAIL  %-6s %-40s status=%d\n", tg.Method, tg.Path, status)
			if tg.Critical {
				failures++
			}
		default:
			fmt.Printf("OK    %-6s %-40s status=%d\n", tg.Method, tg.Path, status)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d critical target(s) failing\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall critical targets healthy")
}

func login(client *http.Client, base, nationalID string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"national_id": nationalID})
	resp, err := client.Post(base+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return envelope.Data.AccessToken, nil
}

func probe(client *http.Client, base, token string, tg target) (int, error) {
	req, err := http.NewRequest(tg.Method, base+tg.Path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
