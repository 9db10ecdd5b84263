package models

import "golang.org/x/crypto/bcrypt"

// Role is the user's capability level. A buyer can only shop; a seller
// additionally owns listings; an admin can manage everything.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User — users table.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(16);not null;default:'buyer'" json:"role"`
}

// CanSell reports whether the user may create and manage listings.
func (u *User) CanSell() bool {
	return u.Role == RoleSeller || u.Role == RoleAdmin
}

// Owns reports whether the user may mutate the given product.
func (u *User) Owns(p *Product) bool {
	return u.Role == RoleAdmin || (u.Role == RoleSeller && p.SellerID == u.ID)
}

// HashPassword turns a plain password into a bcrypt hash.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword verifies a password against its stored hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
