package session

import "strings"

// Paths of the console's entry views.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/new-account"
	PathRecover  = "/recover-password"
)

// Resolve is the view-gating rule: given the requested path and the
// current authentication state it returns the path the user must be sent
// to instead, or "" when the request may proceed. Unauthenticated users
// only reach the login, registration and recovery views — anything else
// lands on registration, unless the path belongs to the recovery flow.
// Authenticated users are bounced from those entry views back home.
//
// The rule is a pure function and is evaluated on every navigation.
func Resolve(path string, authenticated bool) string {
	if authenticated {
		switch path {
		case PathLogin, PathRegister, PathRecover:
			return PathHome
		}
		return ""
	}

	switch path {
	case PathLogin, PathRegister, PathRecover:
		return ""
	case PathHome:
		return PathLogin
	}
	// Recovery links arrive with extra segments (the single-use token).
	if strings.HasPrefix(path, PathRecover+"/") {
		return PathRecover
	}
	return PathRegister
}
