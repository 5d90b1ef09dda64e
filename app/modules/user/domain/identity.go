package userdomain

import "context"

// Identity is the read-only view of a caller that clan operations consume.
type Identity struct {
	UserID        int64
	Username      string
	Privilege     Privilege
	AccountStatus AccountStatus
	ClanID        *int64
	DefaultMode   GameMode
}

// IsRestricted reports whether the account is restricted.
func (i Identity) IsRestricted() bool {
	return i.AccountStatus == AccountStatusRestricted
}

// HasSupporter reports whether the caller holds the Supporter perk.
func (i Identity) HasSupporter() bool {
	return i.Privilege.Has(PrivilegeSupporter)
}

// HighestPrivilege returns the caller's highest ranked privilege.
func (i Identity) HighestPrivilege() Privilege {
	return i.Privilege.Highest()
}

type identityKey struct{}

// WithIdentity attaches the caller identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity stored on ctx.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
