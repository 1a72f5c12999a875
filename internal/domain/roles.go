package domain

import "strings"

// RoleHints is the declarative table mapping evaluator roles to the
// free-text fragments that identify them in organizational role names.
// Head-of-department hints short-circuit the other families; the lead and
// product-owner checks are evaluated independently, so a single name may
// contribute more than one role.
type RoleHints struct {
	HeadOfDepartment []string
	ProductOwner     []string
	Lead             []string
}

// DefaultRoleHints returns the stock hint table.
func DefaultRoleHints() RoleHints {
	return RoleHints{
		HeadOfDepartment: []string{"head of", "headof"},
		ProductOwner:     []string{"product owner", "po"},
		Lead:             []string{"lead"},
	}
}

// Resolve maps free-text organizational role names onto the closed evaluator
// role set. The output is deduplicated and follows the canonical role order.
func (h RoleHints) Resolve(names []string) []EvaluatorRole {
	found := make(map[EvaluatorRole]bool, len(AllEvaluatorRoles))

	for _, raw := range names {
		name := normalizeRoleName(raw)
		if name == "" {
			continue
		}

		if containsAnyHint(name, h.HeadOfDepartment) {
			found[RoleHeadOfDepartment] = true
			continue
		}

		if matchesProductOwner(name, h.ProductOwner) {
			found[RoleProductOwner] = true
		}
		if matchesLead(name, h.Lead) {
			found[RoleLead] = true
		}
	}

	roles := make([]EvaluatorRole, 0, len(found))
	for _, r := range AllEvaluatorRoles {
		if found[r] {
			roles = append(roles, r)
		}
	}
	return roles
}

// normalizeRoleName lower-cases the name and collapses separator runs
// (whitespace, dashes, underscores) to single spaces.
func normalizeRoleName(s string) string {
	s = strings.ToLower(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-' || r == '_'
	})
	return strings.Join(fields, " ")
}

func containsAnyHint(name string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// matchesProductOwner accepts an exact hint match, a match after stripping
// trailing periods ("po." -> "po"), or a substring match for multi-word
// hints. Short abbreviations never match as substrings so that names like
// "support" do not resolve to PRODUCT_OWNER.
func matchesProductOwner(name string, hints []string) bool {
	stripped := strings.TrimRight(name, ".")
	for _, hint := range hints {
		if name == hint || stripped == hint {
			return true
		}
		if strings.Contains(hint, " ") && strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// matchesLead accepts an exact hint match or the normalized name ending with
// " <hint>" or starting with "<hint> ". A bare prefix is not enough:
// "leadership coach" must not resolve to LEAD.
func matchesLead(name string, hints []string) bool {
	for _, hint := range hints {
		if name == hint {
			return true
		}
		if strings.HasSuffix(name, " "+hint) || strings.HasPrefix(name, hint+" ") {
			return true
		}
	}
	return false
}
