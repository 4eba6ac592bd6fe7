package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"basecamp-mcp/internal/credentials"
	"basecamp-mcp/pkg/logging"
)

// Endpoint is the 37signals launchpad OAuth2 endpoint used by Basecamp 3.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://launchpad.37signals.com/authorization/new",
	TokenURL:  "https://launchpad.37signals.com/authorization/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// defaultTokenTTL is assumed when the token endpoint omits expires_in.
// Launchpad access tokens live two weeks.
const defaultTokenTTL = 14 * 24 * time.Hour

// exchangeTimeout bounds every token endpoint call.
const exchangeTimeout = 30 * time.Second

// Exchange performs authorization-code and refresh-token exchanges against
// the launchpad token endpoint. It holds no state between calls beyond the
// HTTP client.
type Exchange struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewExchange creates an Exchange for the given OAuth application.
func NewExchange(clientID, clientSecret, redirectURI string) *Exchange {
	return &Exchange{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     Endpoint,
		},
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
}

// AuthCodeURL builds the browser authorization URL. Launchpad requires the
// type=web_server parameter on the consent screen request.
func (e *Exchange) AuthCodeURL(state string) string {
	return e.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("type", "web_server"))
}

// ExchangeCode exchanges an authorization code for a credential record.
// Authorization codes are single-use, so this is one-shot with no retry.
func (e *Exchange) ExchangeCode(ctx context.Context, code string) (*credentials.Record, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("type", "web_server")
	data.Set("client_id", e.conf.ClientID)
	data.Set("client_secret", e.conf.ClientSecret)
	data.Set("redirect_uri", e.conf.RedirectURL)
	data.Set("code", code)

	rec, err := e.postToken(ctx, data)
	if err != nil {
		return nil, err
	}
	logging.Debug("Auth", "Exchanged authorization code for token (expires: %s)",
		rec.Expiry().Format(time.RFC3339))
	return rec, nil
}

// Refresh exchanges a refresh token for a new credential record. The service
// may rotate the refresh token on every refresh; the returned record carries
// whichever refresh token came back, falling back to the presented one only
// when the response omits the field.
func (e *Exchange) Refresh(ctx context.Context, refreshToken string) (*credentials.Record, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("type", "refresh")
	data.Set("client_id", e.conf.ClientID)
	data.Set("client_secret", e.conf.ClientSecret)
	data.Set("refresh_token", refreshToken)

	rec, err := e.postToken(ctx, data)
	if err != nil {
		return nil, err
	}
	if rec.RefreshToken == "" {
		rec.RefreshToken = refreshToken
	}
	logging.Debug("Auth", "Refreshed access token (expires: %s, rotated_refresh_token: %t)",
		rec.Expiry().Format(time.RFC3339), rec.RefreshToken != refreshToken)
	return rec, nil
}

// tokenResponse is the token endpoint's JSON body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (e *Exchange) postToken(ctx context.Context, data url.Values) (*credentials.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.conf.Endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := time.Now()
	return &credentials.Record{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        tok.Scope,
		ExpiresAt:    now.Add(ttl).Unix(),
		ObtainedAt:   now.Unix(),
	}, nil
}
