package dto

import "github.com/Temutjin2k/swiftdrop/pkg/validator"

type TopUpRequest struct {
	Amount int `json:"amount"`
}

func ValidateTopUp(v *validator.Validator, req *TopUpRequest, min int) {
	v.Check(req.Amount >= min, "amount", "must be at least the minimum top-up amount")
}
