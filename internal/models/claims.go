package models

import "github.com/dgrijalva/jwt-go"

// Claims is the JWT payload the auth middleware resolves the actor from.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}
