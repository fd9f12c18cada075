package handler

import "github.com/cesizen/identity-system/internal/core/domain"

// profileUpdateRequest is the self-service patch. Pointer fields distinguish
// "absent" from "set to zero value" so unset fields stay untouched.
type profileUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

func (r profileUpdateRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Email:    r.Email,
		FullName: r.FullName,
		Password: r.Password,
	}
}

// adminUpdateRequest additionally allows role and disabled changes.
type adminUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Disabled *bool   `json:"disabled,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

func (r adminUpdateRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Email:    r.Email,
		FullName: r.FullName,
		Password: r.Password,
		Disabled: r.Disabled,
		Role:     r.Role,
	}
}
