package models

// Semester is the academic term an applicant is currently in
type Semester string

// Semester values accepted by the registration form
const (
	Semester1  Semester = "1"
	Semester2  Semester = "2"
	Semester3  Semester = "3"
	Semester4  Semester = "4"
	Semester5  Semester = "5"
	Semester6  Semester = "6"
	Semester7  Semester = "7"
	Semester8  Semester = "8"
	SemesterPG Semester = "PG"
)

// Semesters lists every valid semester value in display order
var Semesters = []Semester{
	Semester1, Semester2, Semester3, Semester4,
	Semester5, Semester6, Semester7, Semester8, SemesterPG,
}

// IsValid reports whether s is one of the known semesters
func (s Semester) IsValid() bool {
	for _, v := range Semesters {
		if s == v {
			return true
		}
	}
	return false
}

// RegistrationStatus is derived from the payment flag at creation time
type RegistrationStatus string

const (
	StatusPendingPayment      RegistrationStatus = "pending_payment"
	StatusPendingVerification RegistrationStatus = "pending_verification"
)

// StatusFor derives the registration status from the paymentDone flag
func StatusFor(paymentDone bool) RegistrationStatus {
	if paymentDone {
		return StatusPendingVerification
	}
	return StatusPendingPayment
}

// NextStep is the client-side hint returned after a registration
type NextStep string

const (
	NextPayment  NextStep = "payment"
	NextThankYou NextStep = "thank-you"
)

// NextStepFor tells the client where to go after registering
func NextStepFor(paymentDone bool) NextStep {
	if paymentDone {
		return NextThankYou
	}
	return NextPayment
}
