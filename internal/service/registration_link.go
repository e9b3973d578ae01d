package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/linkgate"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type LinkService struct {
	store *repo.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewLinkService(store *repo.Store, log *logrus.Logger) *LinkService {
	return &LinkService{store: store, log: log, now: nowUTC}
}

// LinkInput describes a link in full. On update it replaces the editable
// settings; IsActive nil keeps the current state.
type LinkInput struct {
	Name              string
	AllowedCategories []string
	ExpiresAt         *time.Time
	UsageLimit        *int
	IsActive          *bool
}

// LinkStatus is the public view of whether a link can still be used.
type LinkStatus struct {
	IsValid              bool                    `json:"is_valid"`
	Reason               models.LinkRejectReason `json:"reason,omitempty"`
	CampName             string                  `json:"camp_name"`
	LinkName             string                  `json:"link_name"`
	ExpiresAt            *time.Time              `json:"expires_at"`
	UsageCount           int                     `json:"usage_count"`
	UsageLimit           *int                    `json:"usage_limit"`
	RegistrationDeadline time.Time               `json:"registration_deadline"`
	Capacity             int                     `json:"capacity"`
	CurrentRegistrations int64                   `json:"current_registrations"`
	RegistrationOpen     bool                    `json:"registration_open"`
}

func (s *LinkService) List(ctx context.Context, actor auth.Identity, campID string) ([]models.RegistrationLink, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}
	return s.store.Links.ListByCamp(ctx, campID)
}

func (s *LinkService) Get(ctx context.Context, actor auth.Identity, linkID string) (*models.RegistrationLink, error) {
	link, err := s.store.Links.Get(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCamp(ctx, s.store, actor, link.CampID); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *LinkService) Create(ctx context.Context, actor auth.Identity, campID string, in LinkInput) (*models.RegistrationLink, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}

	link := &models.RegistrationLink{
		CampID:    campID,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedBy: actor.UserID,
	}
	if err := s.apply(ctx, link, in); err != nil {
		return nil, err
	}
	link.LinkToken = newLinkToken(link.Name)

	if err := s.store.Links.Create(ctx, link); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"camp_id": campID, "link_id": link.ID}).Info("registration link created")
	return link, nil
}

// Update replaces name, allowed categories, expiry and usage limit. The
// usage count is left alone.
func (s *LinkService) Update(ctx context.Context, actor auth.Identity, linkID string, in LinkInput) (*models.RegistrationLink, error) {
	link, err := s.Get(ctx, actor, linkID)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		link.IsActive = *in.IsActive
	}
	if err := s.apply(ctx, link, in); err != nil {
		return nil, err
	}
	if err := s.store.Links.Update(ctx, link); err != nil {
		return nil, err
	}
	return s.store.Links.Get(ctx, linkID)
}

func (s *LinkService) Toggle(ctx context.Context, actor auth.Identity, linkID string) (*models.RegistrationLink, error) {
	link, err := s.Get(ctx, actor, linkID)
	if err != nil {
		return nil, err
	}
	link.IsActive = !link.IsActive
	if err := s.store.Links.Update(ctx, link); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"link_id": link.ID, "is_active": link.IsActive}).Info("registration link toggled")
	return s.store.Links.Get(ctx, linkID)
}

// Delete refuses to remove a link that registrations came through.
func (s *LinkService) Delete(ctx context.Context, actor auth.Identity, linkID string) error {
	if _, err := s.Get(ctx, actor, linkID); err != nil {
		return err
	}
	n, err := s.store.Registrations.Count(ctx, repo.RegistrationFilter{LinkID: linkID})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("link has %d registrations, deactivate it instead: %w", n, models.ErrConflict)
	}
	return s.store.Links.Delete(ctx, linkID)
}

// Status reports whether the link identified by token can take a submission
// right now. It never fails for a rejected link, only for a missing one.
func (s *LinkService) Status(ctx context.Context, token string) (*LinkStatus, error) {
	link, err := s.store.Links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	camp, err := s.store.Camps.Get(ctx, link.CampID)
	if err != nil {
		return nil, err
	}
	count, err := s.store.Registrations.CountByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	decision := linkgate.Evaluate(*link, *camp, now, count)
	status := &LinkStatus{
		CampName:             camp.Name,
		LinkName:             link.Name,
		ExpiresAt:            link.ExpiresAt,
		UsageCount:           link.UsageCount,
		UsageLimit:           link.UsageLimit,
		RegistrationDeadline: camp.RegistrationDeadline,
		Capacity:             camp.Capacity,
		CurrentRegistrations: count,
		RegistrationOpen:     camp.AcceptingRegistrations(now),
	}
	if !decision.Valid() {
		status.Reason = models.LinkRejectReason(decision.Outcome)
	}
	status.IsValid = decision.Valid() && status.RegistrationOpen
	return status, nil
}

// apply validates in and copies it onto link.
func (s *LinkService) apply(ctx context.Context, link *models.RegistrationLink, in LinkInput) error {
	name, err := requireText("name", in.Name, 200)
	if err != nil {
		return err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return models.Invalid("expires_at", "must be in the future")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return models.Invalid("usage_limit", "must be at least 1")
	}

	allowed := make([]string, 0, len(in.AllowedCategories))
	for _, id := range in.AllowedCategories {
		if !slices.Contains(allowed, id) {
			allowed = append(allowed, id)
		}
	}
	if len(allowed) > 0 {
		found, err := s.store.Categories.ListByIDs(ctx, link.CampID, allowed)
		if err != nil {
			return err
		}
		if len(found) != len(allowed) {
			return models.Invalid("allowed_categories", "must only name categories of this camp")
		}
	}

	link.Name = name
	link.AllowedCategories = datatypes.JSONSlice[string](allowed)
	if in.ExpiresAt != nil {
		expires := in.ExpiresAt.UTC()
		link.ExpiresAt = &expires
	} else {
		link.ExpiresAt = nil
	}
	link.UsageLimit = in.UsageLimit
	return nil
}

// newLinkToken builds "<prefix>_<32 hex chars>" where prefix is the first
// three letters or digits of the link name.
func newLinkToken(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToLower(name) {
		if prefix.Len() == 3 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			prefix.WriteRune(r)
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("lnk")
	}
	return prefix.String() + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
