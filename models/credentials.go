package models

type Role string

const (
	ADMIN   Role = "ADMIN"
	ANALYST Role = "ANALYST"
	VIEWER  Role = "VIEWER"
)

func RoleFromString(s string) Role {
	switch s {
	case "ADMIN":
		return ADMIN
	case "ANALYST":
		return ANALYST
	case "VIEWER":
		return VIEWER
	default:
		return ""
	}
}

type Credentials struct {
	UserId         string
	OrganizationId string
	Role           Role
}

func (c Credentials) IsAdmin() bool {
	return c.Role == ADMIN
}
