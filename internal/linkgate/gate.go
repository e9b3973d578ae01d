// Package linkgate decides whether a public submission may go through a
// registration link.
package linkgate

import (
	"slices"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
)

type Outcome string

const (
	Valid          Outcome = "valid"
	Inactive       Outcome = "inactive"
	Expired        Outcome = "expired"
	UsageExhausted Outcome = "usage_exhausted"
	CampFull       Outcome = "camp_full"
)

// Decision is the result of Evaluate. AllowedCategoryIDs is only meaningful
// for a Valid outcome; a nil slice means every category of the camp.
type Decision struct {
	Outcome            Outcome
	AllowedCategoryIDs []string
}

// Evaluate checks the link against its state and the camp's fill level. The
// first failing check wins, in this order: inactive, expired, usage limit
// reached, camp at capacity.
func Evaluate(link models.RegistrationLink, camp models.Camp, now time.Time, registrationCount int64) Decision {
	switch {
	case !link.IsActive:
		return Decision{Outcome: Inactive}
	case link.ExpiresAt != nil && now.After(*link.ExpiresAt):
		return Decision{Outcome: Expired}
	case link.UsageLimit != nil && link.UsageCount >= *link.UsageLimit:
		return Decision{Outcome: UsageExhausted}
	case camp.Full(registrationCount):
		return Decision{Outcome: CampFull}
	}

	var allowed []string
	if len(link.AllowedCategories) > 0 {
		allowed = slices.Clone([]string(link.AllowedCategories))
	}
	return Decision{Outcome: Valid, AllowedCategoryIDs: allowed}
}

func (d Decision) Valid() bool {
	return d.Outcome == Valid
}

// AllCategories reports whether the link places no restriction on category.
func (d Decision) AllCategories() bool {
	return d.Valid() && len(d.AllowedCategoryIDs) == 0
}

func (d Decision) Allows(categoryID string) bool {
	if !d.Valid() {
		return false
	}
	return d.AllCategories() || slices.Contains(d.AllowedCategoryIDs, categoryID)
}

// Err converts a rejection into the matching *models.LinkRejectedError. It
// returns nil for a Valid decision.
func (d Decision) Err() error {
	switch d.Outcome {
	case Valid:
		return nil
	case Inactive:
		return models.RejectLink(models.ReasonInactive)
	case Expired:
		return models.RejectLink(models.ReasonExpired)
	case UsageExhausted:
		return models.RejectLink(models.ReasonUsageExhausted)
	default:
		return models.RejectLink(models.ReasonCampFull)
	}
}
