package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/avGenie/go-order-system/internal/app/entity"
	usecase "github.com/avGenie/go-order-system/internal/app/usecase/errors"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID entity.UserID `json:"user_id"`
	TeamID entity.TeamID `json:"team_id"`
}

func BuildJWTString(member entity.Member, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: member.UserID,
		TeamID: member.TeamID,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error while signing token: %w", err)
	}

	return tokenString, nil
}

func GetMember(tokenString, secret string) (entity.Member, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Member{}, usecase.ErrTokenExpired
		}
		return entity.Member{}, fmt.Errorf("%w: %s", usecase.ErrTokenNotValid, err.Error())
	}

	if !token.Valid {
		return entity.Member{}, usecase.ErrTokenNotValid
	}

	return entity.Member{
		UserID: claims.UserID,
		TeamID: claims.TeamID,
	}, nil
}
