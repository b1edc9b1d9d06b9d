package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"posimarket/api/ctxutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestAuthenticatorParse(t *testing.T) {
	auth := NewAuthenticator("s3cret")

	admin, err := auth.Issue("ops", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	expired, err := auth.Issue("buyer", "", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	otherKey, err := NewAuthenticator("other").Issue("buyer", "", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "buyer"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: RoleAdmin}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	actor, err := auth.Parse(admin)
	if err != nil || actor.UserID != "ops" || !actor.Admin {
		t.Errorf("Parse(admin) = %+v, %v", actor, err)
	}

	for name, raw := range map[string]string{
		"expired":    expired,
		"other key":  otherKey,
		"alg none":   unsigned,
		"no subject": noSubject,
		"garbage":    "abc.def.ghi",
	} {
		if _, err := auth.Parse(raw); err == nil {
			t.Errorf("Parse(%s) accepted the token", name)
		}
	}
}

func TestOptionalAndRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator("s3cret")
	tok, err := auth.Issue("buyer", "", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	engine := gin.New()
	whoami := func(c *gin.Context) {
		actor, _ := ctxutil.Actor(c)
		c.String(http.StatusOK, actor.UserID)
	}
	engine.GET("/optional", auth.Optional(), whoami)
	engine.GET("/required", auth.Required(), whoami)

	tests := []struct {
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"/optional", "", http.StatusOK, ""},
		{"/optional", "Bearer " + tok, http.StatusOK, "buyer"},
		{"/optional", "Bearer broken", http.StatusOK, ""},
		{"/required", "bearer " + tok, http.StatusOK, "buyer"},
		{"/required", "", http.StatusUnauthorized, ""},
		{"/required", "Basic " + tok, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != tt.wantCode {
			t.Errorf("%s %q: status = %d, want %d", tt.path, tt.header, w.Code, tt.wantCode)
		}
		if tt.wantCode == http.StatusOK && w.Body.String() != tt.wantBody {
			t.Errorf("%s %q: actor = %q, want %q", tt.path, tt.header, w.Body.String(), tt.wantBody)
		}
	}
}
