package auth

import (
	"testing"

	"mailchat/internal/db"
	"mailchat/internal/models"
)

func TestNewSessionKey(t *testing.T) {
	key1, err := NewSessionKey()
	if err != nil {
		t.Fatalf("NewSessionKey() error = %v", err)
	}
	key2, err := NewSessionKey()
	if err != nil {
		t.Fatalf("NewSessionKey() error = %v", err)
	}

	if key1 == "" {
		t.Error("NewSessionKey() returned empty key")
	}
	if key1 == key2 {
		t.Error("NewSessionKey() should generate unique keys")
	}
	// Check key length (hex encoded 32 bytes = 64 chars)
	if len(key1) != 64 {
		t.Errorf("NewSessionKey() key length = %d, want 64", len(key1))
	}
}

func TestSignSessionToken(t *testing.T) {
	tests := []struct {
		name       string
		identityID uint
		sessionKey string
		secret     string
		wantErr    bool
	}{
		{"valid token", 1, "abc", "test-secret", false},
		{"zero identity id", 0, "abc", "test-secret", false},
		{"empty secret", 1, "abc", "", false},
		{"empty session key", 1, "", "test-secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := SignSessionToken(tt.identityID, tt.sessionKey, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("SignSessionToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && token == "" {
				t.Error("SignSessionToken() returned empty token")
			}
		})
	}
}

func TestParseSessionToken(t *testing.T) {
	secret := "test-secret-key"
	identityID := uint(42)
	sessionKey := "deadbeef"

	token, err := SignSessionToken(identityID, sessionKey, secret)
	if err != nil {
		t.Fatalf("SignSessionToken() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		wantUID uint
		wantKey string
		wantErr bool
	}{
		{"valid token", token, secret, identityID, sessionKey, false},
		{"wrong secret", token, "wrong-secret", 0, "", true},
		{"invalid token", "invalid.token.here", secret, 0, "", true},
		{"empty token", "", secret, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseSessionToken(tt.token, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSessionToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if claims.IdentityID != tt.wantUID {
				t.Errorf("ParseSessionToken() IdentityID = %v, want %v", claims.IdentityID, tt.wantUID)
			}
			if claims.SessionKey != tt.wantKey {
				t.Errorf("ParseSessionToken() SessionKey = %v, want %v", claims.SessionKey, tt.wantKey)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	gdb, err := db.Connect(":memory:")
	if err != nil {
		t.Fatalf("db.Connect() error = %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("db.Migrate() error = %v", err)
	}

	ident := models.Identity{Email: "a@x.com", IsVerified: true}
	if err := gdb.Create(&ident).Error; err != nil {
		t.Fatalf("create identity: %v", err)
	}

	key, err := NewSessionKey()
	if err != nil {
		t.Fatalf("NewSessionKey() error = %v", err)
	}
	if err := CreateSession(gdb, ident.ID, key); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	sess, err := LookupSession(gdb, key)
	if err != nil {
		t.Fatalf("LookupSession() error = %v", err)
	}
	if sess.IdentityID != ident.ID {
		t.Errorf("LookupSession() IdentityID = %v, want %v", sess.IdentityID, ident.ID)
	}

	if err := RevokeSession(gdb, key); err != nil {
		t.Fatalf("RevokeSession() error = %v", err)
	}
	if _, err := LookupSession(gdb, key); err == nil {
		t.Error("LookupSession() should fail after revocation")
	}
}

func TestLookupSession_Unknown(t *testing.T) {
	gdb, err := db.Connect(":memory:")
	if err != nil {
		t.Fatalf("db.Connect() error = %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("db.Migrate() error = %v", err)
	}

	if _, err := LookupSession(gdb, "no-such-key"); err == nil {
		t.Error("LookupSession() should fail for unknown key")
	}
}
