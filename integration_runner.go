package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Manual end-to-end smoke test against a running server. Needs a
// seeded organization admin account; configure via env:
//
//	PLANIVO_URL   (default http://localhost:8080)
//	PLANIVO_EMAIL / PLANIVO_PASSWORD

type loginResponse struct {
	Token   string   `json:"token"`
	Modules []string `json:"modules"`
}

type entity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type shareTokenResponse struct {
	Token string `json:"token"`
}

func main() {
	baseURL := envOr("PLANIVO_URL", "http://localhost:8080")
	email := envOr("PLANIVO_EMAIL", "admin@demo.planivo.app")
	password := envOr("PLANIVO_PASSWORD", "changeme")

	fmt.Println("=== Planivo Backend Integration Test ===")

	// 1. Login
	fmt.Println("\n1. Logging in...")
	var login loginResponse
	post(baseURL+"/v1/auth/login", "", map[string]any{
		"email": email, "password": password,
	}, &login)
	if login.Token == "" {
		log.Fatal("No token in login response")
	}
	fmt.Printf("✓ Logged in, %d modules visible\n", len(login.Modules))

	// 2. Tenancy chain
	fmt.Println("\n2. Creating workspace → facility → department...")
	suffix := time.Now().UnixMilli()
	var workspace entity
	post(baseURL+"/v1/workspaces", login.Token, map[string]any{
		"name": fmt.Sprintf("Smoke %d", suffix),
		"slug": fmt.Sprintf("smoke-%d", suffix),
	}, &workspace)

	var facility entity
	post(baseURL+"/v1/facilities", login.Token, map[string]any{
		"workspace_id": workspace.ID,
		"name":         "Smoke Facility",
		"timezone":     "Europe/Zurich",
	}, &facility)

	var department entity
	post(baseURL+"/v1/departments", login.Token, map[string]any{
		"facility_id": facility.ID,
		"name":        "Smoke Department",
		"category":    "general",
	}, &department)
	fmt.Println("✓ Tenancy chain created")

	// 3. Staff + schedule + shift
	fmt.Println("\n3. Creating staff member and schedule...")
	var staff entity
	post(baseURL+"/v1/staff", login.Token, map[string]any{
		"department_id":   department.ID,
		"first_name":      "Alex",
		"last_name":       "Smoke",
		"position":        "nurse",
		"employment_rate": 0.8,
		"hired_on":        "2024-01-01",
	}, &staff)

	var schedule entity
	post(baseURL+"/v1/schedules", login.Token, map[string]any{
		"department_id": department.ID,
		"name":          "Smoke Week",
		"starts_on":     "2026-09-07",
		"ends_on":       "2026-09-13",
	}, &schedule)

	var shift entity
	post(baseURL+"/v1/schedules/"+schedule.ID+"/shifts", login.Token, map[string]any{
		"staff_member_id": staff.ID,
		"starts_at":       "2026-09-07T08:00:00Z",
		"ends_at":         "2026-09-07T16:00:00Z",
		"kind":            "regular",
	}, &shift)
	fmt.Println("✓ Staff, schedule, and shift created")

	// 4. Publish and share
	fmt.Println("\n4. Publishing schedule and minting share token...")
	var published entity
	post(baseURL+"/v1/schedules/"+schedule.ID+"/publish", login.Token, nil, &published)
	if published.Status != "published" {
		log.Fatalf("Expected published status, got %q", published.Status)
	}

	var share shareTokenResponse
	post(baseURL+"/v1/schedules/"+schedule.ID+"/share-tokens", login.Token, nil, &share)
	fmt.Println("✓ Share token minted")

	// 5. Public lookup, twice to exercise the cache
	fmt.Println("\n5. Fetching public schedule...")
	for i := 0; i < 2; i++ {
		resp, err := http.Get(baseURL + "/v1/public/schedules/" + share.Token)
		if err != nil {
			log.Fatal("Public lookup failed:", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			log.Fatalf("Public lookup returned %d", resp.StatusCode)
		}
	}
	fmt.Println("✓ Public lookup working (cache warm)")

	// 6. Availability conflict
	fmt.Println("\n6. Checking availability conflict detection...")
	resp, err := httpGet(baseURL+"/v1/staff/"+staff.ID+
		"/availability?from=2026-09-07T10:00:00Z&to=2026-09-07T12:00:00Z", login.Token)
	if err != nil {
		log.Fatal("Availability check failed:", err)
	}
	var availability struct {
		Available bool `json:"available"`
	}
	json.NewDecoder(resp.Body).Decode(&availability)
	resp.Body.Close()
	if availability.Available {
		log.Fatal("Expected a conflict with the created shift")
	}
	fmt.Println("✓ Conflict detected as expected")

	fmt.Println("\n=== Test Complete ===")
}

func post(url, token string, body any, out any) {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s returned %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("POST %s decode: %v", url, err)
		}
	}
}

func httpGet(url, token string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return http.DefaultClient.Do(req)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
