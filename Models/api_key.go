package Models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey authenticates machine integrations (webhooks, the lead agent
// widget). Only the SHA-256 of the key is stored; the plaintext is shown
// once at creation.
type APIKey struct {
	gorm.Model
	Name       string     `json:"name" gorm:"not null"`
	KeyHash    string     `json:"-" gorm:"uniqueIndex"`
	Prefix     string     `json:"prefix"`                    // first 11 chars, for display
	Scopes     string     `json:"scopes"`                    // comma separated: leads, webhooks, media
	LastUsedAt *time.Time `json:"last_used_at"`
	Revoked    bool       `json:"revoked" gorm:"default:false"`
}

// GenerateAPIKey returns the plaintext key and its stored hash.
func GenerateAPIKey() (plaintext, hash string) {
	plaintext = "ck_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return plaintext, HashAPIKey(plaintext)
}

func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// HasScope reports whether the key grants the named scope.
func (k *APIKey) HasScope(scope string) bool {
	for _, s := range strings.Split(k.Scopes, ",") {
		if strings.TrimSpace(s) == scope {
			return true
		}
	}
	return false
}
