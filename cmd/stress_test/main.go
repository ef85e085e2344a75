package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

// Fires concurrent checkouts that share one idempotency key at a running
// server. Exactly one must be accepted; the rest must be refused as
// duplicates.
func main() {
	baseURL := flag.String("url", "http://localhost:4000", "storefront base URL")
	totalRequests := flag.Int("requests", 20, "concurrent submissions")
	header := flag.String("header", "Idempotency-Key", "idempotency header name")
	flag.Parse()

	key := uuid.NewString()
	body, err := json.Marshal(map[string]any{
		"customer": domain.CustomerInput{
			Email:     fmt.Sprintf("stress+%s@example.com", key[:8]),
			FirstName: "Stress",
			LastName:  "Test",
			Address:   "1 Load St",
			City:      "Testville",
		},
		"items": []map[string]any{
			{"name": "Stress Test Ring", "quantity": 1, "price": 10},
		},
	})
	if err != nil {
		log.Fatalf("failed to encode payload: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	url := *baseURL + "/api/orders/from-cart"

	// Counters
	var successCount, duplicateCount, failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				failCount.Add(1)
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(*header, key)

			resp, err := client.Do(req)
			if err != nil {
				failCount.Add(1)
				return
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				duplicateCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	duplicates := duplicateCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Idempotency Key:  %s\n", key)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Accepted:         %d\n", success)
	fmt.Printf("Duplicates:       %d\n", duplicates)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == 1 && duplicates == int32(*totalRequests-1) {
		fmt.Println("PASS: exactly one order accepted, every other submission refused")
	} else {
		fmt.Printf("FAIL: expected 1 accepted/%d duplicates, got %d/%d (%d failed)\n",
			*totalRequests-1, success, duplicates, fail)
	}
}
