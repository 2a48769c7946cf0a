package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/CarlosEstrada30/smart-orders-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateParse_ConTenant(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "smart-orders-test", 5, pkgjwt.Identity{
		UserID: "u-1",
		Email:  "ana@example.com",
		Role:   "admin",
		Tenant: &pkgjwt.TenantClaim{TenantID: "t-1", TenantSchema: "acme_abc", TenantName: "Acme"},
	})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "acme_abc", claims.Schema())
	assert.Equal(t, "Acme", claims.Tenant.TenantName)
}

func TestParse_SinTenantUsaSchemaVacio(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "x", 5, pkgjwt.Identity{UserID: "u-1", Role: "sales"})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Nil(t, claims.Tenant)
	assert.Equal(t, "", claims.Schema())
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "x", 5, pkgjwt.Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "x", -1, pkgjwt.Identity{UserID: "u-1"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "x", 5, pkgjwt.Identity{UserID: "u-1"})
	assert.Error(t, err)
}
