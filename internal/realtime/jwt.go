package realtime

import (
	"fmt"
	"time"

	"github.com/nats-io/jwt/v2"
	"github.com/nats-io/nkeys"

	"planivo-backend/internal/natsbus"
)

// JWTIssuer issues short-lived NATS user credentials for browser clients,
// scoped to the subjects of one user in one org.
type JWTIssuer struct {
	signingKey   nkeys.KeyPair
	accountPubID string
}

func NewJWTIssuer(signingKeySeed, accountPubKey string) (*JWTIssuer, error) {
	kp, err := nkeys.FromSeed([]byte(signingKeySeed))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS signing key seed: %w", err)
	}

	if accountPubKey == "" {
		return nil, fmt.Errorf("missing NATS account public key")
	}

	return &JWTIssuer{
		signingKey:   kp,
		accountPubID: accountPubKey,
	}, nil
}

func GenerateUserKeyPair() (seed string, publicKey string, err error) {
	kp, err := nkeys.CreateUser()
	if err != nil {
		return "", "", err
	}

	seedBytes, err := kp.Seed()
	if err != nil {
		return "", "", err
	}

	publicKey, err = kp.PublicKey()
	if err != nil {
		return "", "", err
	}

	return string(seedBytes), publicKey, nil
}

// UserMessageSubject is the per-user fanout subject for new-message
// notifications.
func UserMessageSubject(orgID, userID string) string {
	return fmt.Sprintf("planivo.%s.user.%s.messages", orgID, userID)
}

// IssueUserJWT signs a NATS user JWT for a browser client. The grant is
// read-only except for the client's own presence entry.
func (ji *JWTIssuer) IssueUserJWT(orgID, userID, publicKey string, expiresIn time.Duration) (string, time.Time, error) {
	if !nkeys.IsValidPublicUserKey(publicKey) {
		return "", time.Time{}, fmt.Errorf("invalid user public key")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)

	claims := jwt.NewUserClaims(publicKey)
	claims.IssuedAt = now.Unix()
	claims.Expires = expiresAt.Unix()
	claims.IssuerAccount = ji.accountPubID

	// Subscribe to the user's own notification subjects only.
	claims.Permissions.Sub.Allow.Add(UserMessageSubject(orgID, userID))
	claims.Permissions.Sub.Allow.Add("_INBOX.>")
	// Publish heartbeats to the user's presence KV entry.
	claims.Permissions.Pub.Allow.Add("$KV." + natsbus.PresenceKV + "." + userID)
	// KV stream info lookup (required by nats.go KeyValue binding).
	claims.Permissions.Pub.Allow.Add("$JS.API.STREAM.INFO.KV_" + natsbus.PresenceKV)

	encoded, err := claims.Encode(ji.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode jwt: %w", err)
	}

	return encoded, expiresAt, nil
}

// BuildCredsFile formats JWT and NKey seed into NATS .creds file format.
func BuildCredsFile(jwtToken, nkeySeed string) string {
	return `-----BEGIN NATS USER JWT-----
` + jwtToken + `
-----END NATS USER JWT-----

-----BEGIN USER NKEY SEED-----
` + nkeySeed + `
-----END USER NKEY SEED-----
`
}
