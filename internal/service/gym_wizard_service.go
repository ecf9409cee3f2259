package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/client"
	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/wizard"
	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

const (
	gymWizardForm = "gym"

	GymWizardModeCreate = "create"
	GymWizardModeEdit   = "edit"

	unexpectedSubmitError = "An unexpected error occurred. Please try again."
)

type gymGateway interface {
	Get(ctx context.Context, id string) (*models.Gym, error)
	CreateWithOwner(ctx context.Context, req models.CreateGymWithOwnerRequest) (*models.Gym, error)
	Update(ctx context.Context, id string, req models.UpdateGymRequest) (*models.Gym, error)
}

// GymFormPatch carries the fields a browser changed; nil fields are kept.
type GymFormPatch struct {
	Name            *string           `json:"name"`
	Address         *string           `json:"address"`
	Status          *models.GymStatus `json:"status"`
	OwnerDocumentID *string           `json:"ownerDocumentId"`
	OwnerFirstName  *string           `json:"ownerFirstName"`
	OwnerLastName   *string           `json:"ownerLastName"`
	OwnerEmail      *string           `json:"ownerEmail"`
}

func (p GymFormPatch) apply(v *models.GymFormValues) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&v.Name, p.Name)
	set(&v.Address, p.Address)
	set(&v.OwnerDocumentID, p.OwnerDocumentID)
	set(&v.OwnerFirstName, p.OwnerFirstName)
	set(&v.OwnerLastName, p.OwnerLastName)
	set(&v.OwnerEmail, p.OwnerEmail)
	if p.Status != nil {
		v.Status = *p.Status
	}
}

// GymWizardView is what the browser renders for a gym form.
type GymWizardView struct {
	ID    string `json:"id"`
	GymID string `json:"gym_id,omitempty"`
	Mode  string `json:"mode"`
	wizard.Snapshot
	Step      wizard.View          `json:"step"`
	Values    models.GymFormValues `json:"values"`
	Accepted  bool                 `json:"accepted"`
	APIError  string               `json:"api_error,omitempty"`
	Completed bool                 `json:"completed,omitempty"`
	Gym       *models.Gym          `json:"gym,omitempty"`
}

type gymWizardState struct {
	ID        string               `json:"id"`
	GymID     string               `json:"gym_id,omitempty"`
	Index     int                  `json:"index"`
	Values    models.GymFormValues `json:"values"`
	Errors    map[string]string    `json:"errors,omitempty"`
	APIError  string               `json:"api_error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type gymWizard struct {
	state *gymWizardState
	form  *wizard.Form[models.GymFormValues]
	ctrl  *wizard.Controller[models.GymFormValues, GymStepProps]
}

// GymWizardService drives the multi-step gym form across requests. Each
// request rebuilds the controller from the persisted snapshot, applies one
// operation and stores the result.
type GymWizardService struct {
	repo      WizardRepository
	gyms      gymGateway
	validator *wizard.StructValidator[models.GymFormValues]
	metrics   *MetricsService
	logger    *zap.Logger
	ttl       time.Duration
	steps     []wizard.Step[GymStepProps]
	locks     sync.Map
}

// NewGymWizardService constructs the service.
func NewGymWizardService(repo WizardRepository, gyms gymGateway, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *GymWizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &GymWizardService{
		repo:      repo,
		gyms:      gyms,
		validator: wizard.NewStructValidator[models.GymFormValues](validate),
		metrics:   metrics,
		logger:    logger,
		ttl:       ttl,
		steps:     GymFormSteps(),
	}
}

// Start opens a new gym form. A non-empty gymID opens it in edit mode seeded
// from the existing gym.
func (s *GymWizardService) Start(ctx context.Context, sessionID, gymID string) (*GymWizardView, error) {
	var gym *models.Gym
	if gymID != "" {
		existing, err := s.gyms.Get(ctx, gymID)
		if err != nil {
			return nil, err
		}
		gym = existing
	}

	state := &gymWizardState{
		ID:     uuid.NewString(),
		GymID:  gymID,
		Values: models.GymFormFromGym(gym),
	}
	w, err := s.build(state)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	s.logger.Debug("gym form started", zap.String("session_id", sessionID), zap.String("wizard_id", state.ID), zap.String("gym_id", gymID))
	return s.view(w, true), nil
}

// Get returns the current view of a form.
func (s *GymWizardService) Get(ctx context.Context, sessionID, id string) (*GymWizardView, error) {
	w, err := s.load(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	return s.view(w, true), nil
}

// UpdateValues merges patch into the form values. Errors are left as they
// are until the next validation.
func (s *GymWizardService) UpdateValues(ctx context.Context, sessionID, id string, patch GymFormPatch) (*GymWizardView, error) {
	return s.mutate(ctx, sessionID, id, "update", func(w *gymWizard) (bool, error) {
		w.form.Update(patch.apply)
		return true, nil
	})
}

// Next validates the current step and advances.
func (s *GymWizardService) Next(ctx context.Context, sessionID, id string) (*GymWizardView, error) {
	return s.mutate(ctx, sessionID, id, "next", func(w *gymWizard) (bool, error) {
		return w.ctrl.Advance(ctx), nil
	})
}

// Previous moves back one step.
func (s *GymWizardService) Previous(ctx context.Context, sessionID, id string) (*GymWizardView, error) {
	return s.mutate(ctx, sessionID, id, "previous", func(w *gymWizard) (bool, error) {
		w.ctrl.Retreat()
		return true, nil
	})
}

// GoTo jumps to the step at index.
func (s *GymWizardService) GoTo(ctx context.Context, sessionID, id string, index int) (*GymWizardView, error) {
	return s.mutate(ctx, sessionID, id, "goto", func(w *gymWizard) (bool, error) {
		if index < 0 || index >= w.ctrl.Len() {
			return false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("step index must be between 0 and %d", w.ctrl.Len()-1))
		}
		return w.ctrl.JumpTo(ctx, index), nil
	})
}

// Submit validates the last step, then every step together, and sends the
// form to the backend. On
// success the form returns to its first step and its snapshot is dropped.
// Backend rejections are reported on the view, pinned to a field when the
// backend names one.
func (s *GymWizardService) Submit(ctx context.Context, sessionID, id string) (*GymWizardView, error) {
	unlock := s.lock(sessionID, id)
	defer unlock()

	w, err := s.load(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	if !w.ctrl.IsLastStep() {
		return nil, appErrors.Clone(appErrors.ErrStepInvalid, "the form can only be submitted from its last step")
	}

	w.state.APIError = ""
	if !w.ctrl.Advance(ctx) || !w.ctrl.ValidateAll(ctx) {
		s.metrics.RecordWizardTransition(gymWizardForm, "submit", false)
		if err := s.save(ctx, sessionID, w); err != nil {
			return nil, err
		}
		return s.view(w, false), nil
	}

	gym, err := s.send(ctx, w)
	if err != nil {
		if expired := s.reportSubmitError(w, err); expired != nil {
			return nil, expired
		}
		s.metrics.RecordWizardTransition(gymWizardForm, "submit", false)
		if err := s.save(ctx, sessionID, w); err != nil {
			return nil, err
		}
		return s.view(w, false), nil
	}

	s.metrics.RecordWizardTransition(gymWizardForm, "submit", true)
	w.ctrl.Reset()
	if err := s.repo.Delete(ctx, stateKey(sessionID, id)); err != nil {
		s.logger.Warn("failed to drop submitted gym form", zap.String("wizard_id", id), zap.Error(err))
	}
	s.locks.Delete(stateKey(sessionID, id))

	view := s.view(w, true)
	view.Completed = true
	view.Gym = gym
	s.logger.Info("gym form submitted", zap.String("session_id", sessionID), zap.String("gym_id", gym.ID), zap.String("mode", view.Mode))
	return view, nil
}

// Discard abandons a form.
func (s *GymWizardService) Discard(ctx context.Context, sessionID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "form not found")
	}
	unlock := s.lock(sessionID, id)
	defer unlock()
	if err := s.repo.Delete(ctx, stateKey(sessionID, id)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard form")
	}
	s.locks.Delete(stateKey(sessionID, id))
	return nil
}

// DiscardAll drops every form the session left open. It runs when the
// session signs out or expires.
func (s *GymWizardService) DiscardAll(ctx context.Context, sessionID string) error {
	prefix := stateKey(sessionID, "")
	dropped, err := s.repo.DeletePrefix(ctx, prefix)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard forms")
	}
	s.locks.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			s.locks.Delete(key)
		}
		return true
	})
	if dropped > 0 {
		s.logger.Debug("gym forms discarded", zap.String("session_id", sessionID), zap.Int("count", dropped))
	}
	return nil
}

func (s *GymWizardService) send(ctx context.Context, w *gymWizard) (*models.Gym, error) {
	values := w.form.Values()
	if w.state.GymID != "" {
		return s.gyms.Update(ctx, w.state.GymID, values.UpdatePayload())
	}
	return s.gyms.CreateWithOwner(ctx, values.CreatePayload())
}

// reportSubmitError records a backend failure on the form. A rejected
// session is returned instead so the caller is sent to sign in again.
func (s *GymWizardService) reportSubmitError(w *gymWizard, err error) error {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		s.logger.Warn("gym form submission failed", zap.String("wizard_id", w.state.ID), zap.Error(err))
		w.state.APIError = unexpectedSubmitError
		return nil
	}
	if apiErr.Status == http.StatusUnauthorized {
		return backendError(err, appErrors.ErrSessionExpired.Message)
	}
	if field, msg, ok := apiErr.FieldMessage(); ok {
		if goField, known := wizard.FieldForJSON(models.GymFormValues{}, field); known {
			w.form.SetError(goField, msg)
			return nil
		}
	}
	w.state.APIError = apiErr.GeneralMessage()
	if w.state.APIError == "" {
		w.state.APIError = unexpectedSubmitError
	}
	return nil
}

func (s *GymWizardService) mutate(ctx context.Context, sessionID, id, action string, fn func(*gymWizard) (bool, error)) (*GymWizardView, error) {
	unlock := s.lock(sessionID, id)
	defer unlock()

	w, err := s.load(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	accepted, err := fn(w)
	if err != nil {
		return nil, err
	}
	if action != "update" {
		s.metrics.RecordWizardTransition(gymWizardForm, action, accepted)
	}
	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return s.view(w, accepted), nil
}

func (s *GymWizardService) build(state *gymWizardState) (*gymWizard, error) {
	values := state.Values
	form := wizard.NewForm[models.GymFormValues](&values, s.validator)
	for field, msg := range state.Errors {
		form.SetError(field, msg)
	}
	ctrl, err := wizard.New[models.GymFormValues, GymStepProps](form, s.steps)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build gym form")
	}
	ctrl.Restore(state.Index)
	return &gymWizard{state: state, form: form, ctrl: ctrl}, nil
}

func (s *GymWizardService) load(ctx context.Context, sessionID, id string) (*gymWizard, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "form not found")
	}
	var state gymWizardState
	if err := s.repo.Get(ctx, stateKey(sessionID, id), &state); err != nil {
		if appErrors.HasCode(err, appErrors.ErrCacheMiss.Code) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "form not found or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load form")
	}
	return s.build(&state)
}

func (s *GymWizardService) save(ctx context.Context, sessionID string, w *gymWizard) error {
	w.state.Index = w.ctrl.CurrentStepIndex()
	w.state.Values = w.form.Values()
	w.state.Errors = w.form.Errors()
	w.state.UpdatedAt = time.Now().UTC()
	if err := s.repo.Set(ctx, stateKey(sessionID, w.state.ID), w.state, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save form")
	}
	return nil
}

func (s *GymWizardService) view(w *gymWizard, accepted bool) *GymWizardView {
	props := GymStepProps{IsEdit: w.state.GymID != ""}
	mode := GymWizardModeCreate
	if props.IsEdit {
		mode = GymWizardModeEdit
	}
	return &GymWizardView{
		ID:       w.state.ID,
		GymID:    w.state.GymID,
		Mode:     mode,
		Snapshot: w.ctrl.Snapshot(),
		Step:     w.ctrl.Render(props),
		Values:   w.form.Values(),
		Accepted: accepted,
		APIError: w.state.APIError,
	}
}

func (s *GymWizardService) lock(sessionID, id string) func() {
	value, _ := s.locks.LoadOrStore(stateKey(sessionID, id), &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func stateKey(sessionID, id string) string {
	return fmt.Sprintf("wizard:gym:%s:%s", sessionID, id)
}
