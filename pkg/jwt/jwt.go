package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TenantClaim descriptor de tenant anidado en el token.
// TenantSchema vacío significa "usar el schema por defecto".
type TenantClaim struct {
	TenantID     string `json:"tenant_id,omitempty"`
	TenantSchema string `json:"tenant_schema,omitempty"`
	TenantName   string `json:"tenant_name,omitempty"`
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role va en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string       `json:"user_id"`
	Email  string       `json:"email,omitempty"`
	Role   string       `json:"role"`
	Tenant *TenantClaim `json:"tenant,omitempty"`
}

// Schema schema declarado por el token, o "" si no trae tenant.
func (c *Claims) Schema() string {
	if c.Tenant == nil {
		return ""
	}
	return c.Tenant.TenantSchema
}

// Identity datos de entrada para emitir un token.
type Identity struct {
	UserID string
	Email  string
	Role   string
	Tenant *TenantClaim
}

// Generate genera un token JWT firmado (HS256) para la identidad dada.
func Generate(secret, issuer string, expMinutes int, id Identity) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		Tenant: id.Tenant,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
