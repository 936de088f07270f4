package dto

import (
	"encoding/json"
	"strings"

	"github.com/yigit/techfest/internal/app/models"
)

// FormBool is a form flag where only the string "true" counts as set.
// JSON bodies may send a real boolean instead.
type FormBool string

// Bool reports whether the flag is set
func (b FormBool) Bool() bool {
	return b == "true"
}

// UnmarshalJSON accepts true/false as well as their string forms
func (b *FormBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		if v {
			*b = "true"
		} else {
			*b = "false"
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = FormBool(s)
	return nil
}

// RegisterRequest is the multipart form posted to /api/register
type RegisterRequest struct {
	EventSlug        string   `form:"eventSlug" json:"eventSlug" validate:"required"`
	Name             string   `form:"name" json:"name" validate:"trimmin=2"`
	Email            string   `form:"email" json:"email" validate:"looseemail"`
	Whatsapp         string   `form:"whatsapp" json:"whatsapp" validate:"whatsapp"`
	College          string   `form:"college" json:"college" validate:"trimmin=2"`
	Semester         string   `form:"semester" json:"semester" validate:"semester"`
	Branch           string   `form:"branch" json:"branch" validate:"trimmin=2"`
	IsIEEEMember     FormBool `form:"isIEEEMember" json:"isIEEEMember"`
	MembershipGrade  string   `form:"membershipGrade" json:"membershipGrade"`
	MembershipNumber string   `form:"membershipNumber" json:"membershipNumber"`
	PaymentDone      FormBool `form:"paymentDone" json:"paymentDone"`

	// HasScreenshot is set by the handler when a proof file was attached
	HasScreenshot bool `form:"-" json:"-"`
}

// NormalizedEmail returns the email trimmed and lower-cased
func (r *RegisterRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// RegisterResponseData is the data block of a successful registration
type RegisterResponseData struct {
	RegistrationID string                    `json:"registrationId" example:"TS-1A2B3C4D"`
	Email          string                    `json:"email"`
	Status         models.RegistrationStatus `json:"status" example:"pending_payment"`
}

// RegisterResponse is returned with 201 Created
type RegisterResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	ID      string               `json:"id" example:"TS-1A2B3C4D"`
	Next    models.NextStep      `json:"next" example:"payment"`
	Data    RegisterResponseData `json:"data"`
}
