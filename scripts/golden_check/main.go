// Command golden_check replays known GPA computations against a running
// instance and reports responses that drift from the expected values.
package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

//go:embed cases.json
var defaultCases []byte

const tolerance = 1e-9

type testCase struct {
	Name     string                 `json:"name"`
	Method   string                 `json:"method"`
	Path     string                 `json:"path"`
	Critical bool                   `json:"critical"`
	Body     json.RawMessage        `json:"body"`
	Status   int                    `json:"status"`
	Expect   map[string]interface{} `json:"expect"`
}

type suite struct {
	Cases []testCase `json:"cases"`
}

type outcome struct {
	Case     testCase
	Status   int
	Diffs    []string
	Error    error
	Duration time.Duration
}

func main() {
	var (
		base      string
		casesPath string
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL including prefix")
	flag.StringVar(&casesPath, "cases", "", "Path to JSON cases file, defaults to the embedded set")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	cases, err := loadCases(casesPath)
	if err != nil {
		log.Fatalf("failed to load cases: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		outcomes []outcome
		breaking int
		optional int
	)
	for _, tc := range cases {
		out := run(client, base, tc)
		if out.Error != nil || len(out.Diffs) > 0 {
			if tc.Critical {
				breaking++
			} else {
				optional++
			}
		}
		outcomes = append(outcomes, out)
	}

	printReport(outcomes)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]testCase, error) {
	data := defaultCases
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	var s suite
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Cases) == 0 {
		return nil, errors.New("no cases defined")
	}
	return s.Cases, nil
}

func run(client *http.Client, base string, tc testCase) outcome {
	out := outcome{Case: tc}
	method := strings.ToUpper(strings.TrimSpace(tc.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tc.Body) > 0 {
		body = bytes.NewReader(tc.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		out.Error = err
		return out
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	out.Duration = time.Since(start)
	if err != nil {
		out.Error = err
		return out
	}
	defer resp.Body.Close()

	out.Status = resp.StatusCode
	if tc.Status != 0 && resp.StatusCode != tc.Status {
		out.Diffs = append(out.Diffs, fmt.Sprintf("status: want %d, got %d", tc.Status, resp.StatusCode))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		out.Error = fmt.Errorf("read body: %w", err)
		return out
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		out.Error = fmt.Errorf("decode body: %w", err)
		return out
	}
	out.Diffs = append(out.Diffs, compare(doc, tc.Expect)...)
	return out
}

// compare checks each dotted path in expect against doc.
func compare(doc interface{}, expect map[string]interface{}) []string {
	var diffs []string
	for path, want := range expect {
		got, ok := lookup(doc, path)
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s: missing", path))
			continue
		}
		if !matches(want, got) {
			diffs = append(diffs, fmt.Sprintf("%s: want %v, got %v", path, want, got))
		}
	}
	return diffs
}

// lookup walks a decoded JSON document by dotted path. Numeric segments index arrays.
func lookup(doc interface{}, path string) (interface{}, bool) {
	current := doc
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func matches(want, got interface{}) bool {
	wantNum, wantIsNum := want.(float64)
	gotNum, gotIsNum := got.(float64)
	if wantIsNum && gotIsNum {
		return scalar.EqualWithinAbs(wantNum, gotNum, tolerance)
	}
	return want == got
}

func printReport(results []outcome) {
	fmt.Println("Golden Check Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if len(res.Diffs) > 0 {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s %s (%s)\n", status, res.Case.Method, res.Case.Path, res.Case.Name, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		for _, d := range res.Diffs {
			fmt.Printf("  %s\n", d)
		}
	}
}
