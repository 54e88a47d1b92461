package dto

import "github.com/Temutjin2k/swiftdrop/pkg/validator"

// UpdateProfileRequest carries the editable profile fields. Email is the
// login identifier and cannot be changed here.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func ValidateUpdateProfile(v *validator.Validator, req *UpdateProfileRequest) {
	v.Check(req.Name != "" || req.Phone != "", "name", "nothing to update")
	v.Check(len(req.Name) <= 500, "name", "must not be more than 500 bytes long")
	v.Check(len(req.Phone) <= 30, "phone", "must not be more than 30 bytes long")
}
