package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items$`, theResponseFieldShouldHaveItems)
	ctx.Step(`^the response field "([^"]*)" should be between ([0-9.]+) and ([0-9.]+)$`, theResponseFieldShouldBeBetween)
}

// registerCacheSteps registers recommendation cache inspection steps.
func registerCacheSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the recommendation cache is empty$`, theRecommendationCacheIsEmpty)
	ctx.Step(`^the recommendation cache should hold (\d+) entr(?:y|ies)$`, theRecommendationCacheShouldHoldEntries)
}

// yearPlaceholder lets feature files stay valid across calendar years.
// "<year+3>" in a request body becomes the current year plus three.
var yearPlaceholder = regexp.MustCompile(`<year\+(\d+)>`)

func expandYearPlaceholders(body string) string {
	currentYear := time.Now().Year()
	return yearPlaceholder.ReplaceAllStringFunc(body, func(match string) string {
		offset, _ := strconv.Atoi(yearPlaceholder.FindStringSubmatch(match)[1])
		return strconv.Itoa(currentYear + offset)
	})
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	expanded := expandYearPlaceholders(body.Content)
	return sendRequest(ctx, method, endpoint, bytes.NewBufferString(expanded))
}

func sendRequest(ctx context.Context, method, endpoint string, body io.Reader) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	url := tc.server.URL + endpoint
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return SetTestContext(ctx, tc), nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, path, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, path)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	// Compare numerically when both sides parse, so "3000" matches 3000.0
	if expectedNum, err := strconv.ParseFloat(expected, 64); err == nil {
		if actualNum, err := strconv.ParseFloat(actual, 64); err == nil {
			if expectedNum == actualNum {
				return nil
			}
			return fmt.Errorf("field '%s' expected %v, got %v", path, expectedNum, actualNum)
		}
	}
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", path, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, path string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	_, err := lookupField(tc.responseBody, path)
	return err
}

func theResponseFieldShouldHaveItems(ctx context.Context, path string, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, path)
	if err != nil {
		return err
	}

	items, ok := value.([]interface{})
	if !ok {
		return fmt.Errorf("field '%s' is not an array: %v", path, value)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", path, count, len(items))
	}
	return nil
}

func theResponseFieldShouldBeBetween(ctx context.Context, path, lowStr, highStr string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := lookupField(tc.responseBody, path)
	if err != nil {
		return err
	}

	actual, ok := value.(float64)
	if !ok {
		return fmt.Errorf("field '%s' is not numeric: %v", path, value)
	}

	low, _ := strconv.ParseFloat(lowStr, 64)
	high, _ := strconv.ParseFloat(highStr, 64)
	if actual < low || actual > high {
		return fmt.Errorf("field '%s' expected within [%v, %v], got %v", path, low, high, actual)
	}
	return nil
}

func theRecommendationCacheIsEmpty(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	return tc.redisClient.FlushAll(ctx).Err()
}

func theRecommendationCacheShouldHoldEntries(ctx context.Context, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	keys, err := tc.redisClient.Keys(ctx, "planner:reco:*").Result()
	if err != nil {
		return fmt.Errorf("failed to inspect cache: %w", err)
	}
	if len(keys) != count {
		return fmt.Errorf("expected %d cache entries, found %d", count, len(keys))
	}
	return nil
}

// lookupField resolves a dot-separated path in the response JSON. Numeric
// segments index into arrays, e.g. "conflicts.0.shortfall".
func lookupField(body []byte, path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response (missing '%s')", path, segment)
			}
			current = value
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return nil, fmt.Errorf("field '%s': '%s' is not an array index", path, segment)
			}
			if index < 0 || index >= len(node) {
				return nil, fmt.Errorf("field '%s': index %d out of range (len %d)", path, index, len(node))
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s': cannot descend into '%s'", path, segment)
		}
	}
	return current, nil
}
