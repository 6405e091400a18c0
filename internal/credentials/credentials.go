package credentials

import "strings"

// Credentials authenticate svn against the repository server. A blank username means anonymous access.
type Credentials struct {
	Username string
	Password string
}

// Anonymous reports whether no username was resolved.
func (credentials Credentials) Anonymous() bool {
	return len(strings.TrimSpace(credentials.Username)) == 0
}
