package domain

// AccessContext is the resolved identity a gate decision runs against: who
// the caller is, their board permission and their computed evaluator roles.
type AccessContext struct {
	UserID     string
	Permission Permission
	Roles      []EvaluatorRole
}

// HasRole reports whether the context holds the given evaluator role.
func (c AccessContext) HasRole(role EvaluatorRole) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the context holds at least one evaluator role.
func (c AccessContext) HasAnyRole() bool {
	return len(c.Roles) > 0
}

// RequireNonViewer denies plain viewers; every higher permission passes
// regardless of evaluator roles.
func RequireNonViewer(ctx AccessContext) error {
	if ctx.Permission == PermissionViewer {
		return NewDomainError(ErrorCodeViewerBlocked, "viewers cannot access quality data")
	}
	return nil
}

// RequireEvaluator demands at least one resolved evaluator role. Permission
// level is irrelevant: a SUPER_ADMIN without a rater role is still denied.
func RequireEvaluator(ctx AccessContext) error {
	if !ctx.HasAnyRole() {
		return NewDomainError(ErrorCodeRoleRequired, "an evaluator role is required to submit evaluations")
	}
	return nil
}

// RequireSummaryViewer gates anonymized aggregate reads. Summary visibility
// is role-gated, not permission-gated, same as evaluator access.
func RequireSummaryViewer(ctx AccessContext) error {
	if !ctx.HasAnyRole() {
		return NewDomainError(ErrorCodeRoleRequired, "an evaluator role is required to view quality summaries")
	}
	return nil
}

// RequireSuperAdmin gates dimension configuration management.
func RequireSuperAdmin(ctx AccessContext) error {
	if ctx.Permission != PermissionSuperAdmin {
		return NewDomainError(ErrorCodeSuperAdminRequired, "super admin permission is required")
	}
	return nil
}

// VisibleDimensions filters the dimension catalog down to what the caller
// may see. Unrestricted dimensions are visible to everyone; restricted ones
// require one of the listed roles. HEAD_OF_DEPARTMENT always sees every
// dimension.
func VisibleDimensions(dims []ReviewDimension, ctx AccessContext) []ReviewDimension {
	visible := make([]ReviewDimension, 0, len(dims))
	for _, d := range dims {
		if DimensionVisibleTo(d, ctx) {
			visible = append(visible, d)
		}
	}
	return visible
}

// DimensionVisibleTo reports whether a single dimension is visible to the
// caller under the role-restriction rules.
func DimensionVisibleTo(d ReviewDimension, ctx AccessContext) bool {
	if len(d.Roles) == 0 {
		return true
	}
	if ctx.HasRole(RoleHeadOfDepartment) {
		return true
	}
	for _, r := range d.Roles {
		if ctx.HasRole(r) {
			return true
		}
	}
	return false
}
