package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"batch-calculator/internal/config"
	"batch-calculator/internal/db"
)

const tokenIssuer = "batch-calculator"

var (
	ErrInvalidToken      = errors.New("недействительный токен")
	ErrExpiredToken      = errors.New("истекший токен")
	ErrMissingAuthHeader = errors.New("отсутствует заголовок Authorization")
	ErrInvalidAuthHeader = errors.New("недействительный формат заголовка Authorization")
	ErrMissingSecret     = errors.New("JWT_SECRET не задан")
)

// Claims представляет собой утверждения JWT
type Claims struct {
	UserID int64  `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	if config.AppConfig.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(config.AppConfig.JWTSecret), nil
}

// GenerateToken создает JWT токен для пользователя и возвращает время его истечения
func GenerateToken(user *db.User) (string, time.Time, error) {
	key, err := secret()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expirationTime := now.Add(time.Duration(config.AppConfig.JWTExpirationMinutes) * time.Minute)

	claims := &Claims{
		UserID: user.ID,
		Login:  user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationTime, nil
}

// ValidateToken проверяет токен и возвращает утверждения, если токен действителен
func ValidateToken(tokenString string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractTokenFromHeader извлекает токен из заголовка Authorization
func ExtractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidAuthHeader
	}

	return parts[1], nil
}
