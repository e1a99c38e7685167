package service

import (
	"context"
	"fmt"
	"io"

	"github.com/evalyhq/evaly-backend/internal/scoring"
	"github.com/google/uuid"
)

// ExportService serializes leaderboard results for download.
type ExportService struct {
	progressService *ProgressService
}

// NewExportService creates a new ExportService.
func NewExportService(progressService *ProgressService) *ExportService {
	return &ExportService{progressService: progressService}
}

// WriteLeaderboardCSV computes the test's leaderboard and streams it as
// CSV. The export is a pure serialization of the progress rollup.
func (s *ExportService) WriteLeaderboardCSV(ctx context.Context, testID uuid.UUID, w io.Writer) error {
	progress, err := s.progressService.GetProgress(ctx, testID)
	if err != nil {
		return fmt.Errorf("get progress: %w", err)
	}
	return scoring.WriteLeaderboardCSV(w, progress.Leaderboard)
}
