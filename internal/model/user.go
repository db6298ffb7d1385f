package model

// Role names accepted by the backend. Root accounts manage other users,
// standard accounts have full record access and visitors are read-only.
const (
	RoleRoot     = "root"
	RoleStandard = "standard"
	RoleVisitor  = "visitor"
)

// User represents an account as served by the user backend.
//
// Fields:
//  ID        – primary identifier assigned by the backend.
//  Password  – write-only: sent on create/update, never meaningfully
//              populated in responses.
//  Role      – root, standard or visitor; gates console authorization.
//  Active    – whether the account may log in.
type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Role      string `json:"role"`
	Password  string `json:"password,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
