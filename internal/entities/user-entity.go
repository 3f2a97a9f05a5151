// Файл: internal/entities/user-entity.go
package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"inventory-system/pkg/types"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

var roleLevels = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleManager:  3,
	RoleAdmin:    4,
}

func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast - проверка иерархии ролей: admin > manager > operator > viewer.
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min] && r.IsValid()
}

// User - внутренняя запись. Пароль и пароль роли никогда не отдаются
// клиенту: наружу уходит только PublicUser.
type User struct {
	ID           uint64      `json:"-" db:"id"`
	Username     string      `json:"-" db:"username"`
	Email        string      `json:"-" db:"email"`
	Password     string      `json:"-" db:"password"`
	Role         Role        `json:"-" db:"role"`
	Department   null.String `json:"-" db:"department"`
	IsActive     bool        `json:"-" db:"is_active"`
	LastLogin    null.Time   `json:"-" db:"last_login"`
	RolePassword null.String `json:"-" db:"role_password"`

	types.BaseEntity
}

// PublicUser - проекция пользователя, которую разрешено сериализовать.
type PublicUser struct {
	ID         uint64      `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       Role        `json:"role"`
	Department null.String `json:"department"`
	IsActive   bool        `json:"is_active"`
	LastLogin  null.Time   `json:"last_login"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

// AuthenticatedUser - результат проверки учётных данных через auth-подключение.
// RoleLogin и RoleSecret используются только менеджером подключений.
type AuthenticatedUser struct {
	User       PublicUser
	RoleLogin  string
	RoleSecret string
}

// UserPatch - частичное обновление: nil означает "не менять".
type UserPatch struct {
	Username     *string
	Email        *string
	Password     *string
	Role         *Role
	Department   *string
	IsActive     *bool
	LastLogin    *time.Time
	RolePassword *string
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = null.StringFrom(*p.Department)
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.LastLogin != nil {
		u.LastLogin = null.TimeFrom(*p.LastLogin)
	}
	if p.RolePassword != nil {
		u.RolePassword = null.StringFrom(*p.RolePassword)
	}
}

// Changes возвращает изменённые колонки для SQL UPDATE.
func (p UserPatch) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if p.Username != nil {
		changes["username"] = *p.Username
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.Password != nil {
		changes["password"] = *p.Password
	}
	if p.Role != nil {
		changes["role"] = string(*p.Role)
	}
	if p.Department != nil {
		changes["department"] = *p.Department
	}
	if p.IsActive != nil {
		changes["is_active"] = *p.IsActive
	}
	if p.LastLogin != nil {
		changes["last_login"] = *p.LastLogin
	}
	if p.RolePassword != nil {
		changes["role_password"] = *p.RolePassword
	}
	return changes
}
