package authcore

import (
	"errors"
	"strings"

	"github.com/classdesk/authcore/jwt"
)

// VerifyBearer validates an Authorization header carrying a signed
// assertion and returns the embedded Identity.
//
// Pure: no I/O, no store round-trip — validity derives solely from the
// signature and the expiry claim. Safe for unbounded concurrent use.
//
// Failures are classified: [ErrMissingToken] for an absent or malformed
// header, [ErrTokenSignature] for a signature that does not verify,
// [ErrTokenExpired] for a valid signature past expiry, [ErrTokenPayload]
// for missing or unparseable claims.
func (e *Engine) VerifyBearer(header string) (Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		e.metricInc(MetricTokenVerifyFailure)
		return Identity{}, ErrMissingToken
	}
	return e.VerifyToken(token)
}

// VerifyToken validates a raw signed assertion string.
func (e *Engine) VerifyToken(token string) (Identity, error) {
	if !e.ready() {
		return Identity{}, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseIdentity(token)
	if err != nil {
		e.metricInc(MetricTokenVerifyFailure)
		switch {
		case errors.Is(err, jwt.ErrExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrSignature):
			return Identity{}, ErrTokenSignature
		default:
			return Identity{}, ErrTokenPayload
		}
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		e.metricInc(MetricTokenVerifyFailure)
		return Identity{}, ErrTokenPayload
	}

	return Identity{
		UserID:      claims.Subject,
		Role:        role,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
