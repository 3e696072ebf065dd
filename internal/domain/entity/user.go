package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleGouvernante = "gouvernante"
	RoleService     = "service"
)

// Permissions es el juego de permisos finos por usuario. Se inicializa desde
// el preset del rol al crear el usuario o al cambiarle el rol, pero después
// es editable de forma independiente (no se deriva del rol).
type Permissions struct {
	ViewInventory        bool `json:"view_inventory"`
	ViewAllSitesStock    bool `json:"view_all_sites_stock"`
	EditInventory        bool `json:"edit_inventory"`
	ViewNeeds            bool `json:"view_needs"`
	ViewFullNeedsHistory bool `json:"view_full_needs_history"`
	CreateNeeds          bool `json:"create_needs"`
	EditNeeds            bool `json:"edit_needs"`
	DeleteNeeds          bool `json:"delete_needs"`
	ViewPurchases        bool `json:"view_purchases"`
	ManageUsers          bool `json:"manage_users"`
	ViewStockHistory     bool `json:"view_stock_history"`
	ManageCategories     bool `json:"manage_categories"`
}

// RolePermissions devuelve el preset de permisos del rol.
func RolePermissions(role string) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			ViewInventory: true, ViewAllSitesStock: true, EditInventory: true,
			ViewNeeds: true, ViewFullNeedsHistory: true, CreateNeeds: true,
			EditNeeds: true, DeleteNeeds: true, ViewPurchases: true,
			ManageUsers: true, ViewStockHistory: true, ManageCategories: true,
		}
	case RoleGouvernante:
		return Permissions{
			ViewInventory: true, ViewAllSitesStock: true, EditInventory: true,
			ViewNeeds: true, ViewFullNeedsHistory: true, CreateNeeds: true,
			EditNeeds: true, DeleteNeeds: true, ViewPurchases: true,
			ViewStockHistory: true, ManageCategories: true,
		}
	default: // service
		return Permissions{
			ViewInventory: true, ViewNeeds: true, CreateNeeds: true,
			EditNeeds: true,
		}
	}
}

// User representa un perfil del sistema.
// Los usuarios entran con username; Email es la dirección sintética
// <username>@<dominio> usada por la capa de credenciales.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	FullName     string
	Role         string // admin, gouvernante, service
	Site         string
	Permissions  Permissions
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin es un atajo frecuente: el rol admin pasa todos los chequeos de permiso.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Can evalúa un permiso fino; admin siempre puede.
func (u *User) Can(check func(Permissions) bool) bool {
	if u.IsAdmin() {
		return true
	}
	return check(u.Permissions)
}
