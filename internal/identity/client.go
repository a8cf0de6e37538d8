package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/config"
)

// SessionClaims are the claims carried by the provider's session token
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Client talks to the identity provider's backend API and verifies its session tokens
type Client struct {
	apiURL        string
	secretKey     string
	sessionSecret []byte
	cookieName    string
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a new identity provider client
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		apiURL:        strings.TrimSuffix(cfg.IdentityAPIURL, "/"),
		secretKey:     cfg.IdentitySecretKey,
		sessionSecret: []byte(cfg.SessionJWTSecret),
		cookieName:    cfg.SessionCookieName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ResolveSession verifies the session token from the Authorization header or the session
// cookie. Request parameters are never consulted.
func (c *Client) ResolveSession(ctx context.Context, headers http.Header) (*Identity, error) {
	tokenString := c.sessionToken(headers)
	if tokenString == "" {
		return nil, ErrNoSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return c.sessionSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		c.logger.Debug("⚠️ [Identity] Session token rejected", "error", err)
		return nil, ErrNoSession
	}

	if claims.Subject == "" {
		return nil, ErrNoSession
	}

	return &Identity{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
	}, nil
}

func (c *Client) sessionToken(headers http.Header) string {
	if authHeader := headers.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	req := &http.Request{Header: headers}
	if cookie, err := req.Cookie(c.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

type userResponse struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

// GetUser fetches the live profile for userID
func (c *Client) GetUser(ctx context.Context, userID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", c.apiURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("❌ [Identity] User lookup failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("❌ [Identity] Unexpected status from identity provider",
			"user_id", userID,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider user: %w", err)
	}

	profile := &Profile{
		UserID:    payload.ID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		ImageURL:  payload.ImageURL,
	}
	if len(payload.EmailAddresses) > 0 && payload.EmailAddresses[0].EmailAddress != "" {
		email := payload.EmailAddresses[0].EmailAddress
		profile.Email = &email
	}

	return profile, nil
}
