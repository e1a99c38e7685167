package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evalyhq/evaly-backend/internal/model"
	"github.com/evalyhq/evaly-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrTestNotFound is returned when a test does not exist or is deleted.
	ErrTestNotFound = errors.New("test not found")
	// ErrNotTestOwner is returned when an organizer touches a test owned
	// by another organization.
	ErrNotTestOwner = errors.New("test belongs to another organization")
)

// TestService handles test and section lifecycle for organizers.
type TestService struct {
	testRepo    *repository.TestRepository
	sectionRepo *repository.SectionRepository
}

// NewTestService creates a new TestService.
func NewTestService(testRepo *repository.TestRepository, sectionRepo *repository.SectionRepository) *TestService {
	return &TestService{testRepo: testRepo, sectionRepo: sectionRepo}
}

// CreateTest creates an unpublished test owned by the organization.
func (s *TestService) CreateTest(ctx context.Context, orgID uuid.UUID, req *model.CreateTestRequest) (*model.Test, error) {
	access := model.TestAccess(req.Access)
	if access == "" {
		access = model.TestAccessPublic
	}

	t := &model.Test{
		Title:          req.Title,
		Type:           model.TestType(req.Type),
		Access:         access,
		OrganizationID: orgID,
	}
	if err := s.testRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	return t, nil
}

// ListTests returns the organization's live tests, newest first.
func (s *TestService) ListTests(ctx context.Context, orgID uuid.UUID) ([]model.Test, error) {
	return s.testRepo.ListByOrganization(ctx, orgID)
}

// GetOwnedTest loads a test and verifies the organization owns it.
func (s *TestService) GetOwnedTest(ctx context.Context, orgID, testID uuid.UUID) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.OrganizationID != orgID {
		return nil, ErrNotTestOwner
	}
	return test, nil
}

// SetPublished flips the publish flag after an ownership check.
func (s *TestService) SetPublished(ctx context.Context, orgID, testID uuid.UUID, published bool) error {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return err
	}
	return s.testRepo.SetPublished(ctx, testID, published)
}

// FinishTest closes a test. Closing is terminal and also releases
// withheld results to participants.
func (s *TestService) FinishTest(ctx context.Context, orgID, testID uuid.UUID) error {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return err
	}
	return s.testRepo.SetFinished(ctx, testID)
}

// DeleteTest tombstones a test. Attempts and answers keep their rows.
func (s *TestService) DeleteTest(ctx context.Context, orgID, testID uuid.UUID) error {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return err
	}
	return s.testRepo.SoftDelete(ctx, testID)
}

// AddSection appends a section to the end of the test.
func (s *TestService) AddSection(ctx context.Context, orgID, testID uuid.UUID, req *model.CreateSectionRequest) (*model.TestSection, error) {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return nil, err
	}

	section := &model.TestSection{
		TestID:          testID,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return section, nil
}

// ListSections returns the test's live sections in order.
func (s *TestService) ListSections(ctx context.Context, orgID, testID uuid.UUID) ([]model.TestSection, error) {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return nil, err
	}
	return s.sectionRepo.ListByTest(ctx, testID)
}

// GetOwnedSection loads a section and verifies the organization owns
// its parent test.
func (s *TestService) GetOwnedSection(ctx context.Context, orgID, sectionID uuid.UUID) (*model.TestSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	if _, err := s.GetOwnedTest(ctx, orgID, section.TestID); err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection tombstones a section. Existing attempts against it stay
// visible in history but stop counting toward completion.
func (s *TestService) DeleteSection(ctx context.Context, orgID, testID, sectionID uuid.UUID) error {
	if _, err := s.GetOwnedTest(ctx, orgID, testID); err != nil {
		return err
	}
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTestNotFound
		}
		return fmt.Errorf("get section: %w", err)
	}
	if section.TestID != testID {
		return ErrNotTestOwner
	}
	return s.sectionRepo.SoftDelete(ctx, sectionID)
}
