package models

// User is an account in the system.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	Age          *int   `json:"age,omitempty" db:"age"`
	Gender       Gender `json:"gender" db:"gender"`
	Phone        string `json:"phone,omitempty" db:"phone"`
	City         string `json:"city,omitempty" db:"city"`
}

// DisplayName is the "First Last email" string used in payment listings.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName + " " + u.Email
}
