package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"miniblog/internal/models"
)

// ResetTokenManager выпускает и проверяет токены сброса пароля.
// Токен - подписанный HS256 JWT с {userId, iat}, состояние на сервере
// не хранится. Отозвать выданные токены можно только сменой секрета.
// Токен не одноразовый: после успешного сброса он действует до истечения срока.
type ResetTokenManager struct {
	secret string
	salt   string
	maxAge time.Duration
}

type resetTokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func NewResetTokenManager(secret, salt string, maxAge time.Duration) *ResetTokenManager {
	return &ResetTokenManager{
		secret: secret,
		salt:   salt,
		maxAge: maxAge,
	}
}

// signingKey выводит ключ подписи из секрета и соли
func (m *ResetTokenManager) signingKey() []byte {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write([]byte(m.salt))
	return mac.Sum(nil)
}

// Issue выпускает токен сброса для пользователя. Время берется у вызывающего.
func (m *ResetTokenManager) Issue(userID string, now time.Time) (string, error) {
	claims := resetTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(m.signingKey())
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify проверяет подпись и возраст токена и возвращает userId.
// Подделанный, просроченный и некорректный токен неразличимы для
// вызывающего: всегда models.ErrInvalidToken.
// Граница включительно: возраст == maxAge еще действителен.
func (m *ResetTokenManager) Verify(tokenString string, now time.Time) (string, error) {
	claims := &resetTokenClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.signingKey(), nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrInvalidToken
	}

	if claims.UserID == "" || claims.IssuedAt == nil {
		return "", models.ErrInvalidToken
	}

	age := now.Sub(claims.IssuedAt.Time)
	if age < 0 || age > m.maxAge {
		return "", models.ErrInvalidToken
	}

	return claims.UserID, nil
}
