// Command smoke runs an end-to-end check against a running server: ingest a
// document, answer a question about it and confirm the citations come back.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

func main() {
	baseURL := os.Getenv("SMOKE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")
	docID := "smoke-" + uuid.New().String()

	fmt.Println("1. Ingesting document...")
	doc := map[string]any{
		"id": docID,
		"sections": []map[string]any{{
			"name": "abstract",
			"entities": []map[string]any{
				{"type": "GENE", "text": "INS", "normalized_text": "ins", "start_pos": 0, "end_pos": 3},
				{"type": "DISEASE", "text": "Diabetes", "normalized_text": "diabetes", "start_pos": 25, "end_pos": 33},
			},
			"relations": []map[string]any{{
				"subject":    map[string]string{"type": "GENE", "text": "INS"},
				"predicate":  "ASSOCIATED_WITH",
				"object":     map[string]string{"type": "DISEASE", "text": "Diabetes"},
				"evidence":   "INS is associated with diabetes",
				"confidence": 0.9,
			}},
		}},
	}
	if _, ok := sendRequest(baseURL, "POST", "/documents", doc); !ok {
		fail("ingest document")
	}
	fmt.Println("PASSED: ingest document")

	fmt.Println("2. Answering question...")
	body, ok := sendRequest(baseURL, "POST", "/answer", map[string]any{"question": "What genes are linked to diabetes?"})
	if !ok {
		fail("answer")
	}
	var res struct {
		Answer    string `json:"answer"`
		Citations []struct {
			DocumentID string `json:"document_id"`
		} `json:"citations"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		fail("decode answer: " + err.Error())
	}
	cited := false
	for _, c := range res.Citations {
		if c.DocumentID == docID {
			cited = true
		}
	}
	if !cited {
		fail("answer does not cite " + docID)
	}
	fmt.Println("PASSED: answer")

	fmt.Println("3. Reading statistics...")
	if _, ok := sendRequest(baseURL, "GET", "/stats", nil); !ok {
		fail("stats")
	}
	fmt.Println("PASSED: stats")
}

func fail(step string) {
	fmt.Println("FAILED: " + step)
	os.Exit(1)
}

func sendRequest(baseURL, method, endpoint string, payload any) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
