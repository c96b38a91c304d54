package realtime

import (
	"strings"
	"testing"
	"time"

	natsjwt "github.com/nats-io/jwt/v2"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *JWTIssuer {
	t.Helper()

	account, err := nkeys.CreateAccount()
	require.NoError(t, err)
	seed, err := account.Seed()
	require.NoError(t, err)
	pub, err := account.PublicKey()
	require.NoError(t, err)

	issuer, err := NewJWTIssuer(string(seed), pub)
	require.NoError(t, err)
	return issuer
}

func TestGenerateUserKeyPair(t *testing.T) {
	seed, publicKey, err := GenerateUserKeyPair()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(seed, "SU"), "user seeds start with SU")
	assert.True(t, nkeys.IsValidPublicUserKey(publicKey))
}

func TestIssueUserJWT(t *testing.T) {
	issuer := newTestIssuer(t)

	_, publicKey, err := GenerateUserKeyPair()
	require.NoError(t, err)

	token, expiresAt, err := issuer.IssueUserJWT("org-1", "user-1", publicKey, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := natsjwt.DecodeUserClaims(token)
	require.NoError(t, err)

	assert.Equal(t, publicKey, claims.Subject)
	assert.Contains(t, claims.Permissions.Sub.Allow, "planivo.org-1.user.user-1.messages")
	assert.Contains(t, claims.Permissions.Sub.Allow, "_INBOX.>")
	assert.Contains(t, claims.Permissions.Pub.Allow, "$KV.PRESENCE.user-1")
	assert.NotContains(t, claims.Permissions.Sub.Allow, "planivo.org-1.user.user-2.messages")
}

func TestIssueUserJWTRejectsBadKey(t *testing.T) {
	issuer := newTestIssuer(t)

	_, _, err := issuer.IssueUserJWT("org-1", "user-1", "not-a-key", time.Hour)
	assert.Error(t, err)
}

func TestNewJWTIssuerInvalidSeed(t *testing.T) {
	_, err := NewJWTIssuer("garbage", "ACABC")
	assert.Error(t, err)
}

func TestBuildCredsFile(t *testing.T) {
	creds := BuildCredsFile("JWT_PAYLOAD", "SEED_PAYLOAD")

	assert.Contains(t, creds, "-----BEGIN NATS USER JWT-----\nJWT_PAYLOAD\n-----END NATS USER JWT-----")
	assert.Contains(t, creds, "-----BEGIN USER NKEY SEED-----\nSEED_PAYLOAD\n-----END USER NKEY SEED-----")
}

func TestUserMessageSubject(t *testing.T) {
	assert.Equal(t, "planivo.org-1.user.user-9.messages", UserMessageSubject("org-1", "user-9"))
}
