package catalog

import (
	"strings"
	"time"
)

// SellerKind classification of an account that sells
type SellerKind string

const (
	// SellerPlatform the marketplace operator; ships from the hub
	SellerPlatform SellerKind = "PLATFORM"
	// SellerInstitutional schools and stores
	SellerInstitutional SellerKind = "INSTITUTIONAL"
	// SellerIndividual parents and students reselling supplies
	SellerIndividual SellerKind = "INDIVIDUAL"
)

// Role account role
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Address registered postal address
type Address struct {
	Street     string
	Number     string
	City       string
	State      string
	PostalCode string
}

// IsZero reports a missing address
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.PostalCode) == ""
}

// User account seen by the core: buyer, seller or administrator
type User struct {
	id        string
	name      string
	email     string
	kind      SellerKind
	role      Role
	address   Address
	createdAt time.Time
}

// UserDTO reconstruction data
type UserDTO struct {
	ID        string
	Name      string
	Email     string
	Kind      SellerKind
	Role      Role
	Address   Address
	CreatedAt time.Time
}

// RebuildUser reconstructs a user from stored data
func RebuildUser(dto UserDTO) *User {
	kind := dto.Kind
	if kind == "" {
		kind = SellerIndividual
	}
	role := dto.Role
	if role == "" {
		role = RoleUser
	}
	return &User{
		id:        dto.ID,
		name:      dto.Name,
		email:     dto.Email,
		kind:      kind,
		role:      role,
		address:   dto.Address,
		createdAt: dto.CreatedAt,
	}
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.id,
		Name:      u.name,
		Email:     u.email,
		Kind:      u.kind,
		Role:      u.role,
		Address:   u.address,
		CreatedAt: u.createdAt,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Kind() SellerKind     { return u.kind }
func (u *User) Role() Role           { return u.role }
func (u *User) Address() Address     { return u.address }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) IsAdmin() bool      { return u.role == RoleAdmin }
func (u *User) IsIndividual() bool { return u.kind == SellerIndividual }
func (u *User) ShipsFromHub() bool { return u.kind == SellerPlatform }
