package profile

import "time"

// Snapshot is an immutable, point-in-time rendering of one user's profile.
// It is built once per orchestration request and never mutated afterwards.
type Snapshot struct {
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Gender      string
	City        string
	Province    string
	Country     string

	MedicalAid  *MedicalAid
	Conditions  []Condition
	Medications []Medication
	Allergies   []Allergy
	Accounts    []Account

	Preferences Preferences
}

type MedicalAid struct {
	SchemeName       string
	PlanType         string
	MembershipNumber string
}

type Condition struct {
	Name   string
	Status string
}

const ConditionActive = "Active"

type Medication struct {
	Name   string
	Dosage string
}

type Allergy struct {
	Allergen string
	Severity string
}

type Account struct {
	Currency      string
	MonthlyIncome float64
	MonthlyBudget float64
	Balance       float64
}

type Preferences struct {
	Language    string
	Terminology string
}

func DefaultPreferences() Preferences {
	return Preferences{
		Language:    "British English",
		Terminology: "Germanic root preferred",
	}
}

// Age derives the user's age at the given instant, or -1 when the date of
// birth is unknown.
func (s *Snapshot) Age(now time.Time) int {
	if s.DateOfBirth == nil {
		return -1
	}
	dob := *s.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// ActiveConditions filters the condition list down to currently active ones.
func (s *Snapshot) ActiveConditions() []Condition {
	var active []Condition
	for _, c := range s.Conditions {
		if c.Status == ConditionActive {
			active = append(active, c)
		}
	}
	return active
}
