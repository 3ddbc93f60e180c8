package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state: the last response, the
// bearer token of every named user, and values saved between steps.
type TestContext struct {
	baseURL string
	client  *http.Client
	grant   func(accountID string) error

	status int
	body   []byte

	tokens   map[string]string
	accounts map[string]string
	saved    map[string]string
}

func NewTestContext(baseURL string, grant func(accountID string) error) *TestContext {
	return &TestContext{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		grant:    grant,
		tokens:   make(map[string]string),
		accounts: make(map[string]string),
		saved:    make(map[string]string),
	}
}

// Do sends a JSON request as user; an empty user is anonymous.
func (tc *TestContext) Do(method, path, user string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "tr")
	if token := tc.tokens[user]; user != "" && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) Status() int {
	return tc.status
}

// Field resolves a dotted path ("session.account.id") in the last JSON body.
func (tc *TestContext) Field(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.body, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object in %s", path, part, tc.body)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q missing in %s", path, tc.body)
		}
	}
	return cur, nil
}

// FieldString is Field rendered with fmt; JSON numbers print without a
// fraction when integral.
func (tc *TestContext) FieldString(path string) (string, error) {
	v, err := tc.Field(path)
	if err != nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func (tc *TestContext) Body() string {
	return string(tc.body)
}

func (tc *TestContext) SetToken(user, token string) {
	tc.tokens[user] = token
}

func (tc *TestContext) SetAccountID(user, accountID string) {
	tc.accounts[user] = accountID
}

func (tc *TestContext) AccountID(user string) string {
	return tc.accounts[user]
}

func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

func (tc *TestContext) Saved(key string) string {
	return tc.saved[key]
}

// GrantResearcher flips the researcher flag, which has no public endpoint.
func (tc *TestContext) GrantResearcher(user string) error {
	accountID := tc.accounts[user]
	if accountID == "" {
		return fmt.Errorf("user %q is not registered", user)
	}
	return tc.grant(accountID)
}
