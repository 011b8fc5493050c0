package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/avGenie/go-order-system/internal/app/entity"
	"github.com/avGenie/go-order-system/internal/app/usecase/crypto"
)

const (
	bearerHeader = "Bearer"

	AuthHeader = "Authorization"
)

func GetMemberFromAuthHeader(header, secret string) (entity.Member, error) {
	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 {
		return entity.Member{}, fmt.Errorf("auth header doesn't contain two parts")
	}

	if headerParts[0] != bearerHeader {
		return entity.Member{}, fmt.Errorf("first auth header part is invalid")
	}

	member, err := crypto.GetMember(headerParts[1], secret)
	if err != nil {
		return entity.Member{}, fmt.Errorf("error while getting member from token: %w", err)
	}

	return member, nil
}

func SetMemberToAuthHeaderFormat(member entity.Member, secret string, ttl time.Duration) (string, error) {
	token, err := crypto.BuildJWTString(member, secret, ttl)
	if err != nil {
		return "", fmt.Errorf("error while creating jwt token: %w", err)
	}

	return fmt.Sprintf("%s %s", bearerHeader, token), nil
}
