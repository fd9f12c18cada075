package domain

// Claims is the verified payload of an access token: the subject's username
// and the role snapshot taken at mint time. It is what a validator hands
// back once signature and expiry have been checked.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuditAction labels an authentication event recorded in the audit trail.
type AuditAction string

const (
	AuditLoginSucceeded AuditAction = "login_succeeded"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditUserRegistered AuditAction = "user_registered"
	AuditUserDeleted    AuditAction = "user_deleted"
)

// AuditEvent is a single entry in the authentication audit trail.
// Username shards the event to a worker so that events for one account
// are persisted in order.
type AuditEvent struct {
	Username string      `json:"username"`
	Action   AuditAction `json:"action"`
	Reason   string      `json:"reason,omitempty"`
	UnixTime int64       `json:"unix_time"`
}
