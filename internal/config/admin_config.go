package config

// AdminConfig holds the fixed console credentials. They are a demo
// placeholder checked locally, not a server side verification.
type AdminConfig interface {
	GetAdminUsername() string
	GetAdminPassword() string
}

type Admin struct{}

var _ AdminConfig = Admin{}

func (Admin) GetAdminUsername() string {
	return GetEnv("ADMIN_USERNAME", "admin")
}

func (Admin) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "admin123")
}
