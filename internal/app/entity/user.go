package entity

import "time"

type UserID string

func (id UserID) String() string {
	return string(id)
}

func (id UserID) Valid() bool {
	return len(id) != 0
}

type TeamID string

func (id TeamID) String() string {
	return string(id)
}

func (id TeamID) Valid() bool {
	return len(id) != 0
}

type Team struct {
	ID   TeamID
	Name string
}

type Member struct {
	UserID UserID
	TeamID TeamID
}

type APIKey struct {
	ID        string
	TeamID    TeamID
	ExpiresAt *time.Time
}

func (k APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

type MemberCtxKey struct{}

type MemberCtx struct {
	Member     Member
	StatusCode int
}

func CreateMemberCtx(member Member, code int) MemberCtx {
	return MemberCtx{
		Member:     member,
		StatusCode: code,
	}
}

type APIKeyCtxKey struct{}

type APIKeyCtx struct {
	Key        string
	StatusCode int
}

func CreateAPIKeyCtx(key string, code int) APIKeyCtx {
	return APIKeyCtx{
		Key:        key,
		StatusCode: code,
	}
}
