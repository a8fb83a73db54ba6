package model

import "time"

// Role values stored in users.role.
const (
    RoleCustomer = "customer"
    RoleAdmin    = "admin"
)

// User represents a storefront account as stored in the `users` table.
// Each field corresponds to a column. The json tags are omitted because
// these structs are used by the repository layer; handlers define their
// own response types with appropriate tags.
//
// Fields:
//  ID            – UUID primary key.
//  Name          – display name.
//  Email         – unique, stored lower-cased.
//  PasswordHash  – bcrypt hash; the plaintext is never persisted.
//  Role          – "customer" or "admin".
//  Phone         – optional contact phone.
//  Address       – optional default shipping address.
//  EmailVerified – whether the address has been confirmed.
type User struct {
    ID            string    // users.id
    Name          string    // users.name
    Email         string    // users.email
    PasswordHash  string    // users.password_hash
    Role          string    // users.role
    Phone         *string   // users.phone (nullable)
    Address       *string   // users.address (nullable)
    EmailVerified bool      // users.email_verified
    CreatedAt     time.Time // users.created_at
    UpdatedAt     time.Time // users.updated_at
}

// Session models a row in the `sessions` table. A login replaces all of a
// user's sessions with a single new row, so at most one session survives
// any login. The bearer token is stored verbatim and looked up on every
// authenticated request.
//
// Fields:
//  ID        – UUID primary key.
//  UserID    – owner of the session.
//  Token     – signed bearer token issued at login/registration.
//  ExpiresAt – absolute expiry, mirrors the token's exp claim.
type Session struct {
    ID        string    // sessions.id
    UserID    string    // sessions.user_id
    Token     string    // sessions.token
    ExpiresAt time.Time // sessions.expires_at
    CreatedAt time.Time // sessions.created_at
}

// Principal is the authenticated caller resolved by the auth middleware.
// It carries the claims operations check instead of re-reading the JWT.
type Principal struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
