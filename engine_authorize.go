package authcore

// RequireRole fails unless identity's role is in allowed. Synchronous and
// side-effect-free; callers compose it with [Engine.EnsureOwnership] as
// guards before business logic — role failures first for message precision,
// though both must pass regardless of order.
func (e *Engine) RequireRole(identity Identity, allowed ...Role) error {
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	e.metricInc(MetricAuthorizationDenied)
	return ErrPermissionDenied
}

// EnsureOwnership fails unless identity owns the resource. Administrators
// bypass ownership unconditionally.
func (e *Engine) EnsureOwnership(identity Identity, resourceOwnerID string) error {
	if identity.Role == RoleAdmin {
		return nil
	}
	if identity.UserID != "" && identity.UserID == resourceOwnerID {
		return nil
	}
	e.metricInc(MetricAuthorizationDenied)
	return ErrPermissionDenied
}
