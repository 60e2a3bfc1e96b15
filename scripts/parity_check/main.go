// Command parity_check replays a set of read-only requests against both the
// legacy Django deployment and this API, and reports where the answers
// diverge. Run it against a shared database before shifting traffic.
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
	"reflect"
	"strings"
	"time"
)

type probe struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Blocking bool   `json:"blocking"`
}

// Volatile fields differ between the two stacks even when the underlying
// rows agree, so they are stripped before bodies are compared.
var volatileKeys = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"expires_at": true,
	"token":      true,
	"request_id": true,
}

var defaultProbes = []probe{
	{Method: http.MethodGet, Path: "/api/v1/faqs", Blocking: true},
	{Method: http.MethodGet, Path: "/api/v1/waste-reports", Blocking: true},
	{Method: http.MethodGet, Path: "/api/v1/waste-reports/analytics", Blocking: true},
	{Method: http.MethodGet, Path: "/api/v1/pickup-requests", Blocking: true},
	{Method: http.MethodGet, Path: "/api/v1/cleanup-teams", Blocking: false},
	{Method: http.MethodGet, Path: "/api/v1/waste-collectors", Blocking: false},
	{Method: http.MethodGet, Path: "/api/v1/dashboard/user", Blocking: true},
	{Method: http.MethodGet, Path: "/api/v1/educational-content", Blocking: false},
	{Method: http.MethodGet, Path: "/api/v1/quizzes", Blocking: false},
	{Method: http.MethodGet, Path: "/api/v1/forum-topics", Blocking: false},
}

type result struct {
	Probe        probe
	GoStatus     int
	LegacyStatus int
	StatusMatch  bool
	BodyMatch    bool
	GoDuration   time.Duration
	Err          error
}

func main() {
	var (
		goBase     string
		legacyBase string
		probesPath string
		token      string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "base URL of the Go API")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "base URL of the legacy Django API")
	flag.StringVar(&probesPath, "probes", "", "optional JSON file overriding the built-in probe list")
	flag.StringVar(&token, "token", os.Getenv("PARITY_TOKEN"), "bearer token accepted by both deployments")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	probes := defaultProbes
	if probesPath != "" {
		loaded, err := loadProbes(probesPath)
		if err != nil {
			log.Fatalf("load probes: %v", err)
		}
		probes = loaded
	}

	client := &http.Client{Timeout: timeout}

	var blocking, drift int
	results := make([]result, 0, len(probes))
	for _, p := range probes {
		res := compare(client, goBase, legacyBase, token, p)
		if res.Err != nil || !res.StatusMatch || !res.BodyMatch {
			if p.Blocking {
				blocking++
			} else {
				drift++
			}
		}
		results = append(results, res)
	}

	report(results)
	fmt.Printf("blocking mismatches: %d, tolerated drift: %d\n", blocking, drift)
	if blocking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probes []probe
	if err := json.Unmarshal(data, &probes); err != nil {
		return nil, err
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("%s defines no probes", path)
	}
	return probes, nil
}

func compare(client *http.Client, goBase, legacyBase, token string, p probe) result {
	res := result{Probe: p}

	goStatus, goBody, goDur, err := fetch(client, goBase, token, p)
	if err != nil {
		res.Err = fmt.Errorf("go request: %w", err)
		return res
	}
	legacyStatus, legacyBody, _, err := fetch(client, legacyBase, token, p)
	if err != nil {
		res.Err = fmt.Errorf("legacy request: %w", err)
		return res
	}

	res.GoStatus = goStatus
	res.LegacyStatus = legacyStatus
	res.GoDuration = goDur
	res.StatusMatch = goStatus == legacyStatus
	res.BodyMatch = bodiesAgree(goBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, token string, p probe) (int, []byte, time.Duration, error) {
	url := strings.TrimRight(base, "/") + p.Path
	req, err := http.NewRequest(p.Method, url, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

func bodiesAgree(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	scrub(&aj)
	scrub(&bj)
	return reflect.DeepEqual(aj, bj)
}

func scrub(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if volatileKeys[k] {
				delete(val, k)
				continue
			}
			scrub(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			scrub(&v2)
			val[i] = v2
		}
	case float64:
		// Django serializes some counters as strings and some as numbers;
		// collapsing integral floats keeps DeepEqual honest either way.
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(results []result) {
	fmt.Println("Parity Check Report")
	fmt.Println("===================")
	for _, res := range results {
		verdict := "OK"
		switch {
		case res.Err != nil:
			verdict = "ERROR"
		case !res.StatusMatch || !res.BodyMatch:
			verdict = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", verdict, res.Probe.Method, res.Probe.Path)
		if res.Err != nil {
			fmt.Printf("  error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  go=%d legacy=%d status_match=%t body_match=%t blocking=%t (%s)\n",
			res.GoStatus, res.LegacyStatus, res.StatusMatch, res.BodyMatch, res.Probe.Blocking, res.GoDuration)
	}
}
