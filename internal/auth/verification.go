package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/attendance/internal/config"
	"github.com/mrlokans/attendance/internal/database/users"
	"github.com/mrlokans/attendance/internal/entities"
)

var (
	ErrVerificationInvalid = errors.New("invalid verification token")
	ErrVerificationExpired = errors.New("verification token expired")
	ErrAlreadyVerified     = errors.New("email already verified")
)

// Verifier manages email verification tokens. Only token hashes are
// persisted; the plaintext travels once, inside the verification mail.
type Verifier struct {
	repo   UserRepository
	config config.Verification
}

// NewVerifier creates a new email verifier.
func NewVerifier(repo UserRepository, cfg config.Verification) *Verifier {
	return &Verifier{repo: repo, config: cfg}
}

// IssueToken generates a fresh verification token for the user, stores
// its hash and issue time, and returns the plaintext for mail delivery.
// Re-issuing replaces any previous token.
func (v *Verifier) IssueToken(userID uint) (string, error) {
	plaintext, hash, err := GenerateVerificationToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := time.Now()
	err = v.repo.Updates(userID, map[string]any{
		"verification_token_hash": hash,
		"verification_sent_at":    now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save verification token: %w", err)
	}

	return plaintext, nil
}

// VerificationURL builds the absolute link embedded in the mail body.
func (v *Verifier) VerificationURL(token string) string {
	return fmt.Sprintf("%s/verify-email/%s", v.config.BaseURL, token)
}

// Verify consumes a plaintext token: the matching user is marked verified
// and the token is cleared. Expired tokens (past the configured TTL) are
// rejected.
func (v *Verifier) Verify(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrVerificationInvalid
	}

	user, err := v.repo.FindByVerificationTokenHash(HashToken(token))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrVerificationInvalid
		}
		return nil, err
	}

	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	if v.config.TokenTTL > 0 && user.VerificationSentAt != nil {
		if time.Since(*user.VerificationSentAt) > v.config.TokenTTL {
			return nil, ErrVerificationExpired
		}
	}

	err = v.repo.Updates(user.ID, map[string]any{
		"email_verified":          true,
		"verification_token_hash": "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	user.EmailVerified = true
	user.VerificationTokenHash = ""
	return user, nil
}
