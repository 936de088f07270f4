package models

import "time"

// Registration is the immutable record written once per accepted request
type Registration struct {
	ID                         int64              `json:"-"`
	RegistrationID             string             `json:"registrationId"`
	EventSlug                  string             `json:"eventSlug"`
	EventTitle                 string             `json:"eventTitle"`
	Name                       string             `json:"name"`
	Email                      string             `json:"email"`
	Whatsapp                   string             `json:"whatsapp"`
	College                    string             `json:"college"`
	Semester                   Semester           `json:"semester"`
	Branch                     string             `json:"branch"`
	IsIEEEMember               bool               `json:"isIEEEMember"`
	MembershipGrade            *string            `json:"membershipGrade,omitempty"`
	MembershipNumber           *string            `json:"membershipNumber,omitempty"`
	PaymentDone                bool               `json:"paymentDone"`
	PaymentScreenshotURL       *string            `json:"paymentScreenshotUrl"`
	PaymentScreenshotDeleteURL *string            `json:"-"`
	Status                     RegistrationStatus `json:"status"`
	CreatedAt                  time.Time          `json:"createdAt"`
	UpdatedAt                  time.Time          `json:"updatedAt"`
}

// EventRegistrationCount pairs an event counter with the stored row count
type EventRegistrationCount struct {
	Slug            string
	RegisteredCount int
	Stored          int
}
