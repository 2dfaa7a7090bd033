package repositories

import (
	"time"

	"github.com/civicwaste/swm-backend/dto"
	"github.com/civicwaste/swm-backend/models"
	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
)

// JwtRepository validates the HS256 tokens issued by the authentication service. Token
// issuance lives in that service, EncodeToken only exists for local tooling and tests.
type JwtRepository struct {
	signingKey []byte
}

// The credentials sit at the top level of the token payload, next to the registered claims
type Claims struct {
	dto.Credentials
	jwt.RegisteredClaims
}

var ValidationAlgo = jwt.SigningMethodHS256

func NewJwtRepository(signingKey string) *JwtRepository {
	return &JwtRepository{signingKey: []byte(signingKey)}
}

func (repo *JwtRepository) EncodeToken(expirationTime time.Time, creds models.Credentials) (string, error) {
	claims := &Claims{
		Credentials: dto.AdaptCredentialDto(creds),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Subject:   creds.ActorIdentity.UserId,
		},
	}
	return jwt.NewWithClaims(ValidationAlgo, claims).SignedString(repo.signingKey)
}

func (repo *JwtRepository) ValidateToken(tokenString string) (models.Credentials, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Wrapf(models.UnAuthorizedError,
				"unexpected signing method: %v", token.Header["alg"])
		}
		return repo.signingKey, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc,
		jwt.WithValidMethods([]string{ValidationAlgo.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Credentials{}, errors.Join(
			models.UnAuthorizedError,
			errors.Wrap(err, "error parsing jwt token claims"),
		)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "invalid token")
	}
	if claims.Id == "" {
		return models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "token carries no user id")
	}
	return dto.AdaptCredential(claims.Credentials), nil
}
