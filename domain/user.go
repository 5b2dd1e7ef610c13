package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        int64   `json:"id" db:"id"`
	Username  string  `json:"username" db:"username"`
	Email     string  `json:"email" db:"email"`
	Password  string  `json:"password,omitempty" db:"password"`
	Role      string  `json:"role" db:"role"`
	LastLogin *string `json:"last_login,omitempty" db:"last_login"`
	CreatedAt string  `json:"created_at,omitempty" db:"created_at"`
}
