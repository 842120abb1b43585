package request

// UserUpdateRequest is a partial profile update; nil fields are left
// untouched. Password and verification state are not reachable here.
type UserUpdateRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
}
