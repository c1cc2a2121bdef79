package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeykit/journeykit-go/internal/domain/builder"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	require.NoError(t, err)
	return logger
}

func TestResolveAccessMatrix(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		want      AccessLevel
	}{
		{"nil principal", nil, AccessNoAccess},
		{"admin role", &Principal{ID: "u1", Role: "admin", CompanyID: "biz_1"}, AccessAdmin},
		{"customer role", &Principal{ID: "u2", Role: "customer", CompanyID: "biz_1"}, AccessCustomer},
		{"member role", &Principal{ID: "u3", Role: "member", CompanyID: "biz_1"}, AccessCustomer},
		{"unknown role", &Principal{ID: "u4", Role: "viewer", CompanyID: "biz_1"}, AccessNoAccess},
		{"company mismatch", &Principal{ID: "u5", Role: "admin", CompanyID: "biz_other"}, AccessNoAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAccess(tt.principal, "biz_1"))
		})
	}
}

func TestSurfaceGates(t *testing.T) {
	assert.True(t, CanEnterBuilder(AccessAdmin))
	assert.False(t, CanEnterBuilder(AccessCustomer))
	assert.False(t, CanEnterBuilder(AccessNoAccess))

	assert.True(t, CanEnterPreview(AccessAdmin))
	assert.True(t, CanEnterPreview(AccessCustomer))
	assert.False(t, CanEnterPreview(AccessNoAccess))
}

func TestClampTabForcesCustomerOffBuilder(t *testing.T) {
	assert.Equal(t, builder.TabPreview, ClampTab(AccessCustomer, builder.TabBuilder))
	assert.Equal(t, builder.TabPreview, ClampTab(AccessNoAccess, builder.TabBuilder))
	assert.Equal(t, builder.TabBuilder, ClampTab(AccessAdmin, builder.TabBuilder))
	assert.Equal(t, builder.TabPreview, ClampTab(AccessAdmin, builder.TabPreview))
	assert.Equal(t, builder.TabPreview, ClampTab(AccessCustomer, builder.TabPreview))
}

type stubVerifier struct {
	principal *Principal
	err       error
}

func (v *stubVerifier) VerifyToken(string) (*Principal, error) {
	return v.principal, v.err
}

func testAccessConfig() *AccessConfig {
	return &AccessConfig{
		CompanyID:        "biz_1",
		JWTSecret:        "test-secret",
		AdminPassword:    "admin-pass",
		CustomerPassword: "customer-pass",
		TokenLifetime:    time.Hour,
	}
}

func TestResolveEmptyTokenIsNoAccess(t *testing.T) {
	service := NewAccessService(&stubVerifier{}, testAccessConfig(), newTestLogger(t))

	principal, level := service.Resolve("")

	assert.Nil(t, principal)
	assert.Equal(t, AccessNoAccess, level)
}

func TestResolveInvalidTokenIsNoAccess(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("signature invalid")}
	service := NewAccessService(verifier, testAccessConfig(), newTestLogger(t))

	principal, level := service.Resolve("broken-token")

	assert.Nil(t, principal)
	assert.Equal(t, AccessNoAccess, level)
}

func TestResolveValidTokenMapsRole(t *testing.T) {
	verifier := &stubVerifier{principal: &Principal{ID: "u1", Role: "customer", CompanyID: "biz_1"}}
	service := NewAccessService(verifier, testAccessConfig(), newTestLogger(t))

	principal, level := service.Resolve("valid-token")

	require.NotNil(t, principal)
	assert.Equal(t, AccessCustomer, level)
}

func TestResolveDevBypassIsAdmin(t *testing.T) {
	config := testAccessConfig()
	config.DevBypass = true
	service := NewAccessService(&stubVerifier{err: errors.New("never called")}, config, newTestLogger(t))

	principal, level := service.Resolve("")

	require.NotNil(t, principal)
	assert.Equal(t, AccessAdmin, level)
}

func TestAuthenticateRoles(t *testing.T) {
	service := NewAccessService(&stubVerifier{}, testAccessConfig(), newTestLogger(t))

	admin := service.Authenticate("admin-pass")
	require.True(t, admin.Success)
	assert.Equal(t, "admin", admin.Role)
	assert.Equal(t, AccessAdmin, admin.Level)
	assert.NotEmpty(t, admin.Token)

	customer := service.Authenticate("customer-pass")
	require.True(t, customer.Success)
	assert.Equal(t, "customer", customer.Role)
	assert.Equal(t, AccessCustomer, customer.Level)

	rejected := service.Authenticate("wrong")
	assert.False(t, rejected.Success)
	assert.Empty(t, rejected.Token)
}

func TestAuthenticateRoundTripsThroughVerifier(t *testing.T) {
	config := testAccessConfig()
	service := NewAccessService(NewJWTVerifier(config.JWTSecret), config, newTestLogger(t))

	result := service.Authenticate("admin-pass")
	require.True(t, result.Success)

	principal, level := service.Resolve(result.Token)
	require.NotNil(t, principal)
	assert.Equal(t, "admin", principal.Role)
	assert.Equal(t, AccessAdmin, level)
}
