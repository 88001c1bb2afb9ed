package service

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/config"
)

// DirectoryAuthenticator validates credentials against an external
// directory.
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, alias, password string) error
}

// LdapAuthenticator binds to an LDAP server with a DN derived from the
// alias. A successful bind is a successful authentication.
type LdapAuthenticator struct {
	host   string
	port   int
	bindDN string
}

// NewLdapAuthenticator creates an authenticator from the LDAP config.
// BindDN is a template with one %s placeholder for the alias, e.g.
// "uid=%s,ou=people,dc=example,dc=org".
func NewLdapAuthenticator(cfg *config.Config) *LdapAuthenticator {
	return &LdapAuthenticator{
		host:   cfg.LdapHost,
		port:   cfg.LdapPort,
		bindDN: cfg.LdapBindDN,
	}
}

// Authenticate performs the bind
func (a *LdapAuthenticator) Authenticate(ctx context.Context, alias, password string) error {
	conn, err := ldap.DialURL(fmt.Sprintf("ldap://%s:%d", a.host, a.port))
	if err != nil {
		return apperrors.Backend(err)
	}
	defer conn.Close()

	if err := conn.Bind(fmt.Sprintf(a.bindDN, ldap.EscapeDN(alias)), password); err != nil {
		return apperrors.Authentication("incorrect user name or password")
	}
	return nil
}
