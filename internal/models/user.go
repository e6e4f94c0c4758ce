package models

type User struct {
	ID        int64   `db:"id" json:"id"`
	Email     string  `db:"email" json:"email"`
	Username  string  `db:"username" json:"username"`
	Firstname string  `db:"firstname" json:"firstname"`
	Lastname  string  `db:"lastname" json:"lastname"`
	Password  string  `db:"hashed_pass" json:"-"`
	IsActive  bool    `db:"is_active" json:"is_active"`
	Role      string  `db:"role" json:"role"`
	PhoneNo   *string `db:"phone_no" json:"phone_no"`
}
