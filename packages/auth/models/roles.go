package models

// Constantes pour les rôles disponibles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// GetDefaultRoles retourne les rôles par défaut pour un nouvel utilisateur
func GetDefaultRoles() Roles {
	return Roles{RoleUser}
}
