package auth

import (
	"errors"
	"testing"
	"time"
)

func testIssuer(accessTTL, refreshTTL time.Duration) *Issuer {
	return NewIssuer("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func testUser() *User {
	return &User{ID: 42, Email: "a@b.com", Role: RoleManager}
}

func TestIssueAndParseAccessToken(t *testing.T) {
	iss := testIssuer(15*time.Minute, 7*24*time.Hour)
	token, err := iss.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := iss.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("want uid 42, got %d", claims.UserID)
	}
	if claims.Role != RoleManager {
		t.Fatalf("want role manager, got %s", claims.Role)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	iss := testIssuer(-time.Minute, time.Hour)
	token, err := iss.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := iss.ParseAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	iss := testIssuer(15*time.Minute, time.Hour)
	refresh, _, _, err := iss.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if _, err := iss.ParseAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token must not pass as access token, got %v", err)
	}
	access, err := iss.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := iss.ParseRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}
}

func TestTamperedToken(t *testing.T) {
	iss := testIssuer(15*time.Minute, time.Hour)
	token, err := iss.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token + "xx"
	if _, err := iss.ParseAccessToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
	if _, err := iss.ParseAccessToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestRefreshTokenCarriesJTI(t *testing.T) {
	iss := testIssuer(15*time.Minute, time.Hour)
	token, jti, expiresAt, err := iss.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if jti == "" {
		t.Fatalf("jti must be set")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expiry must be in the future")
	}
	claims, err := iss.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("embedded jti %q != returned jti %q", claims.ID, jti)
	}
	if claims.UserID != 42 {
		t.Fatalf("want uid 42, got %d", claims.UserID)
	}
}
