package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	sheetsScope     = "https://www.googleapis.com/auth/spreadsheets"

	// Tokens are considered stale one minute before their reported expiry so
	// an in-flight request never carries a token that dies mid-call.
	expirySlack = time.Minute
)

// TokenSource mints Google service-account access tokens and caches them
// until shortly before expiry. It is safe for concurrent use and is injected
// into the Client rather than living in package state.
type TokenSource struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
	httpClient  *http.Client
	tokenURL    string
	now         func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource parses the PEM-encoded service account key and returns a
// ready token source.
func NewTokenSource(clientEmail, privateKeyPEM string, httpClient *http.Client) (*TokenSource, error) {
	if clientEmail == "" {
		return nil, fmt.Errorf("sheets: client email is required")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("sheets: parse service account key: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenSource{
		clientEmail: clientEmail,
		privateKey:  key,
		httpClient:  httpClient,
		tokenURL:    defaultTokenURL,
		now:         time.Now,
	}, nil
}

// Token returns a valid access token, reusing the cached one when possible.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.token != "" && ts.expiry.After(now.Add(expirySlack)) {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion(now)
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("sheets: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheets: token request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("sheets: token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("sheets: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("sheets: token endpoint returned empty access token")
	}

	ts.token = payload.AccessToken
	ts.expiry = now.Add(time.Duration(payload.ExpiresIn) * time.Second)
	return ts.token, nil
}

func (ts *TokenSource) signAssertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   ts.clientEmail,
		"scope": sheetsScope,
		"aud":   ts.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", fmt.Errorf("sheets: sign assertion: %w", err)
	}
	return signed, nil
}
