package jobcard

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autoserve/jobcard-backend/internal/db"
	"github.com/autoserve/jobcard-backend/internal/models"
	"github.com/autoserve/jobcard-backend/internal/notify"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(msg string) error {
	return &ValidationError{Message: msg}
}

// CreateInput carries the caller-supplied fields for a new job card.
type CreateInput struct {
	CustomerName string
	VehicleType  models.VehicleType
	VehicleNo    string
}

// UpdateInput carries the caller-supplied fields for a history entry.
type UpdateInput struct {
	Status        models.JobStatus
	Note          string
	CriticalIssue bool
}

// PartInput carries the caller-supplied fields for a part line. Values
// are recorded verbatim; the caller is expected to have copied name
// and price from a catalog lookup.
type PartInput struct {
	InventoryCode string
	Name          string
	Quantity      int
	UnitPrice     float64
}

// Service is the job card lifecycle engine. It owns validation, the
// critical-issue override and history appends; role gating happens at
// the route layer.
type Service struct {
	cards    db.JobCardCollection
	notifier notify.Notifier
	log      *log.Entry
}

// NewService creates a lifecycle service. A nil notifier disables
// status events.
func NewService(cards db.JobCardCollection, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{
		cards:    cards,
		notifier: notifier,
		log:      log.WithField("component", "jobcard"),
	}
}

// Create opens a new job card with status "new", empty history and
// parts, and the default labour charge.
func (s *Service) Create(ctx context.Context, actor *models.Claims, in CreateInput) (*models.JobCard, error) {
	customerName := strings.TrimSpace(in.CustomerName)
	vehicleNo := strings.TrimSpace(in.VehicleNo)

	if customerName == "" || vehicleNo == "" || in.VehicleType == "" {
		return nil, validationErrorf("all fields are required")
	}
	if !models.IsValidVehicleType(in.VehicleType) {
		return nil, validationErrorf("vehicle type must be 2W or 4W")
	}

	createdBy, err := primitive.ObjectIDFromHex(actor.UserID)
	if err != nil {
		return nil, validationErrorf("invalid actor id")
	}

	card := &models.JobCard{
		CustomerName: customerName,
		VehicleType:  in.VehicleType,
		VehicleNo:    vehicleNo,
		Status:       models.StatusNew,
		CreatedBy:    createdBy,
		Updates:      []models.Update{},
		Parts:        []models.PartLine{},
		LabourCharge: lo.ToPtr(models.DefaultLabourCharge),
	}

	if err := s.cards.InsertJobCard(ctx, card); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{
		"job_card_id": card.ID.Hex(),
		"actor":       actor.Username,
		"vehicle_no":  card.VehicleNo,
	}).Info("job card created")

	return card, nil
}

// AppendUpdate appends a history entry and moves the card to the
// effective status. A critical issue always forces waiting_auth no
// matter which status the caller supplied; otherwise the supplied
// status is taken as-is, with no adjacency restriction.
func (s *Service) AppendUpdate(ctx context.Context, actor *models.Claims, id string, in UpdateInput) (*models.JobCard, error) {
	if in.Status == "" || strings.TrimSpace(in.Note) == "" {
		return nil, validationErrorf("status and note are required")
	}
	if !models.IsValidStatus(in.Status) {
		return nil, validationErrorf("invalid status")
	}

	updatedBy, err := primitive.ObjectIDFromHex(actor.UserID)
	if err != nil {
		return nil, validationErrorf("invalid actor id")
	}

	effectiveStatus := in.Status
	if in.CriticalIssue {
		effectiveStatus = models.StatusWaitingAuth
	}

	update := models.Update{
		Status:        effectiveStatus,
		Note:          in.Note,
		CriticalIssue: in.CriticalIssue,
		UpdatedBy:     updatedBy,
		CreatedAt:     time.Now(),
	}

	if err := s.cards.PushUpdate(ctx, id, update, effectiveStatus); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{
		"job_card_id":    id,
		"actor":          actor.Username,
		"status":         effectiveStatus,
		"critical_issue": in.CriticalIssue,
	}).Info("update appended")

	s.publishStatusChange(notify.StatusEvent{
		JobCardID:     id,
		Status:        effectiveStatus,
		CriticalIssue: in.CriticalIssue,
		UpdatedBy:     actor.UserID,
		At:            update.CreatedAt,
	})

	return s.cards.FindJobCardByID(ctx, id)
}

// AttachPart appends a part line. Purely additive: existing lines and
// the card status are untouched.
func (s *Service) AttachPart(ctx context.Context, actor *models.Claims, id string, in PartInput) (*models.JobCard, error) {
	if strings.TrimSpace(in.InventoryCode) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, validationErrorf("all fields are required")
	}
	if in.Quantity < 1 {
		return nil, validationErrorf("quantity must be at least 1")
	}
	if in.UnitPrice < 0 {
		return nil, validationErrorf("unit price must not be negative")
	}

	part := models.PartLine{
		InventoryCode: in.InventoryCode,
		Name:          in.Name,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
	}

	if err := s.cards.PushPart(ctx, id, part); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{
		"job_card_id":    id,
		"actor":          actor.Username,
		"inventory_code": in.InventoryCode,
		"quantity":       in.Quantity,
	}).Info("part attached")

	return s.cards.FindJobCardByID(ctx, id)
}

// SetStatus overwrites the card status without appending to the
// history and without the critical-issue override. Used by managers to
// clear waiting_auth and by service advisors for corrections. Status
// changes through this path are not reflected in the updates history,
// a known inconsistency with the "status mirrors last update" rule.
func (s *Service) SetStatus(ctx context.Context, actor *models.Claims, id string, status models.JobStatus) (*models.JobCard, error) {
	if !models.IsValidStatus(status) {
		return nil, validationErrorf("invalid status")
	}

	if err := s.cards.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{
		"job_card_id": id,
		"actor":       actor.Username,
		"status":      status,
	}).Info("status overwritten")

	s.publishStatusChange(notify.StatusEvent{
		JobCardID: id,
		Status:    status,
		UpdatedBy: actor.UserID,
		At:        time.Now(),
	})

	return s.cards.FindJobCardByID(ctx, id)
}

// Get returns a single job card.
func (s *Service) Get(ctx context.Context, id string) (*models.JobCard, error) {
	return s.cards.FindJobCardByID(ctx, id)
}

// ListAll returns all job cards, most recently created first.
func (s *Service) ListAll(ctx context.Context) ([]models.JobCard, error) {
	return s.cards.FindJobCards(ctx)
}

func (s *Service) publishStatusChange(event notify.StatusEvent) {
	if err := s.notifier.StatusChanged(event); err != nil {
		s.log.WithError(err).WithField("job_card_id", event.JobCardID).
			Warn("failed to publish status event")
	}
}
