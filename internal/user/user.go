package user

// User is the local directory record mirroring an identity provider
// account plus app-specific profile fields. Records are created only by the
// provisioning service and soft-deleted: Active=false means the IdP account
// has been removed while the row is retained for history.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	IdPAccountID string `json:"idp_account_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Active       bool   `json:"active"`
}
