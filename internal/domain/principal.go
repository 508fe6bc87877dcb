// Package domain holds types shared across domain areas.
package domain

// Principal captures the normalized caller identity extracted from a
// validated bearer token.
type Principal struct {
	Subject  string
	Issuer   string
	Audience []string
	Username string
	Email    string
	Name     string
	Scopes   []string
	TokenID  string
}

// HasScope checks if the principal possesses a scope.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
