package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/db/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie   = "taskdeck_oauth_state"
	sessionCookie = "taskdeck_token"
	userIDKey     = "userID"
)

// userStore is the slice of the gateway the login flow needs.
type userStore interface {
	GetOrCreateUser(ctx context.Context, id, email, name, picture string) (models.User, error)
}

// Authenticator handles the Google login flow and session tokens. The
// rest of the application only ever sees the user id it extracts; it
// never re-authenticates a request beyond verifying the token.
type Authenticator struct {
	cfg   config.Auth
	oauth *oauth2.Config
	db    userStore
	log   *logrus.Logger
}

func NewAuthenticator(cfg config.Auth, database userStore, log *logrus.Logger) *Authenticator {
	return &Authenticator{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		db:  database,
		log: log,
	}
}

// Login redirects the browser to the Google consent screen with a
// one-time state nonce stored in a short-lived cookie.
func (a *Authenticator) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, a.oauth.AuthCodeURL(state))
}

type googleProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback completes the authorization-code exchange, upserts the user
// record and issues the session token. All post-login requests land on
// the configured app URL; there is a single redirect rule.
func (a *Authenticator) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	token, err := a.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		a.log.WithError(err).Warn("oauth code exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login failed"})
		return
	}

	profile, err := a.fetchProfile(c, token)
	if err != nil {
		a.log.WithError(err).Warn("failed to fetch user profile")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login failed"})
		return
	}

	user, err := a.db.GetOrCreateUser(c.Request.Context(), profile.Sub, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		a.log.WithError(err).Error("failed to upsert user")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login failed"})
		return
	}

	session, err := a.IssueToken(user.ID)
	if err != nil {
		a.log.WithError(err).Error("failed to issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, session, int(a.cfg.TokenTTL().Seconds()), "/", "", false, true)

	target := a.cfg.AppURL
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

func (a *Authenticator) fetchProfile(c *gin.Context, token *oauth2.Token) (*googleProfile, error) {
	client := a.oauth.Client(c.Request.Context(), token)
	resp, err := client.Get("https://openidconnect.googleapis.com/v1/userinfo")
	if err != nil {
		return nil, fmt.Errorf("error fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("error decoding userinfo: %w", err)
	}
	if profile.Sub == "" {
		return nil, fmt.Errorf("userinfo missing subject")
	}
	return &profile, nil
}

// IssueToken mints a signed session token carrying the stable user id.
func (a *Authenticator) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TokenTTL())),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// VerifyToken parses a session token and returns the user id it
// carries.
func (a *Authenticator) VerifyToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return claims.Subject, nil
}

// RequireAuth gates the API routes. The token can arrive as a Bearer
// header (API clients) or the session cookie (browser).
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := a.VerifyToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
