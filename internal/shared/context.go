package shared

import (
	"context"

	"github.com/google/uuid"
)

type tenantContextKey struct{}

// Tenant identifies the caller for the duration of a request.
type Tenant struct {
	ID    uuid.UUID
	Alias string
}

// ContextWithTenant stores the tenant in context.
func ContextWithTenant(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

// TenantFromContext extracts the tenant from context.
func TenantFromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey{}).(Tenant)
	return t, ok
}
