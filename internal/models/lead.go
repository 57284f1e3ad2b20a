package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const LeadsCollection = "leads"

// LeadType distinguishes general enquiries from booking requests.
type LeadType string

const (
	LeadTypeQuery   LeadType = "query"
	LeadTypeBooking LeadType = "booking"
)

// Valid reports whether t is one of the accepted lead types.
func (t LeadType) Valid() bool {
	return t == LeadTypeQuery || t == LeadTypeBooking
}

// Lead is a visitor enquiry or booking request captured by the site forms.
// Leads are never updated and expire seven days after CreatedAt. Optional
// fields are nil when the form did not send them; a submitted "" is kept.
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Type      LeadType           `bson:"type" json:"type"`
	FullName  *string            `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Email     *string            `bson:"email,omitempty" json:"email,omitempty"`
	Message   *string            `bson:"message,omitempty" json:"message,omitempty"`
	Reason    *string            `bson:"reason,omitempty" json:"reason,omitempty"`
	Date      *string            `bson:"date,omitempty" json:"date,omitempty"`
	Time      *string            `bson:"time,omitempty" json:"time,omitempty"`
	Day       *string            `bson:"day,omitempty" json:"day,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Validate applies the lead schema: type is required and must be a known value.
func (l *Lead) Validate() error {
	var problems []string
	switch {
	case l.Type == "":
		problems = append(problems, "type: Path `type` is required.")
	case !l.Type.Valid():
		problems = append(problems, fmt.Sprintf("type: `%s` is not a valid enum value for path `type`.", l.Type))
	}
	if len(problems) > 0 {
		return &ValidationError{Model: "Lead", Problems: problems}
	}
	return nil
}

// ValidationError reports schema violations found before a write.
type ValidationError struct {
	Model    string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(e.Problems, ", "))
}
