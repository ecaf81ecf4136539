package board

import (
	"github.com/autoserve/jobcard-backend/internal/models"
)

// Project groups job cards by their current status for the kanban
// view. All four buckets are always present, even when empty, and
// input ordering is preserved within each bucket. Cards whose status
// is not one of the four known values are silently dropped, matching
// the board's display contract.
func Project(cards []models.JobCard) map[models.JobStatus][]models.JobCard {
	grouped := map[models.JobStatus][]models.JobCard{
		models.StatusNew:         {},
		models.StatusInProgress:  {},
		models.StatusWaitingAuth: {},
		models.StatusDone:        {},
	}

	for _, card := range cards {
		if _, ok := grouped[card.Status]; !ok {
			continue
		}
		grouped[card.Status] = append(grouped[card.Status], card)
	}

	return grouped
}
