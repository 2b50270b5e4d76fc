package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims is the JWT payload identifying a player session. It is the
// server-side equivalent of the browser's persisted nickname: it asserts an
// identity, it does not verify one.
type PlayerClaims struct {
	Nickname  string `json:"nickname"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginResponse is returned by POST /v1/auth/login.
type LoginResponse struct {
	Token    string `json:"token"`
	Nickname string `json:"nickname"`
}
