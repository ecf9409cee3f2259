package wizard

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSteps is returned when a controller is built without steps.
var ErrNoSteps = errors.New("wizard: at least one step is required")

// TransitionFunc observes step index changes.
type TransitionFunc func(from, to int)

// Controller tracks the current step of a form and gates navigation on the
// validity of that step. Navigation calls are serialised: a call issued while
// another is validating waits for it to finish.
type Controller[T any, P any] struct {
	mu      sync.Mutex
	form    *Form[T]
	steps   []Step[P]
	current int
	onMove  TransitionFunc
}

// New builds a controller positioned on the first step.
func New[T any, P any](form *Form[T], steps []Step[P]) (*Controller[T, P], error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if form == nil {
		return nil, errors.New("wizard: form is required")
	}
	owned := make([]Step[P], len(steps))
	copy(owned, steps)
	return &Controller[T, P]{form: form, steps: owned}, nil
}

// OnTransition registers fn to be called after every index change.
func (c *Controller[T, P]) OnTransition(fn TransitionFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMove = fn
}

// Form returns the shared form state.
func (c *Controller[T, P]) Form() *Form[T] {
	return c.form
}

// Steps returns the navigation entries of every step.
func (c *Controller[T, P]) Steps() []StepSummary {
	out := make([]StepSummary, len(c.steps))
	for i, s := range c.steps {
		out[i] = StepSummary{ID: s.ID, Name: s.Name}
	}
	return out
}

// Len returns the number of steps.
func (c *Controller[T, P]) Len() int {
	return len(c.steps)
}

// CurrentStepIndex returns the 0-based position of the active step.
func (c *Controller[T, P]) CurrentStepIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CurrentStep returns the active step.
func (c *Controller[T, P]) CurrentStep() Step[P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.current]
}

// IsFirstStep reports whether the first step is active.
func (c *Controller[T, P]) IsFirstStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == 0
}

// IsLastStep reports whether the last step is active.
func (c *Controller[T, P]) IsLastStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == len(c.steps)-1
}

// Render renders the active step with props and decorates its fields with
// the form's current error markers.
func (c *Controller[T, P]) Render(props P) View {
	step := c.CurrentStep()
	var view View
	if step.Render != nil {
		view = step.Render.Render(props)
	}
	view.StepID = step.ID
	view.Name = step.Name
	errs := c.form.Errors()
	for i := range view.Fields {
		if msg, ok := errs[view.Fields[i].Name]; ok {
			view.Fields[i].Error = msg
		}
	}
	return view
}

// Advance validates the current step and moves to the next one. It returns
// true when the step is valid, including on the last step where the index is
// kept and true means the form is ready to submit.
func (c *Controller[T, P]) Advance(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.validateCurrent(ctx) {
		return false
	}
	if c.current < len(c.steps)-1 {
		c.moveTo(c.current + 1)
	}
	return true
}

// ValidateAll validates the fields of every step at once without moving. A
// value edited on an earlier step after it was left is caught here.
func (c *Controller[T, P]) ValidateAll(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Trigger(ctx, c.allFields())
}

// allFields must be called with mu held.
func (c *Controller[T, P]) allFields() []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, step := range c.steps {
		for _, field := range step.Fields() {
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			fields = append(fields, field)
		}
	}
	return fields
}

// Retreat moves back one step without validating. It is a no-op on the first
// step.
func (c *Controller[T, P]) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current > 0 {
		c.moveTo(c.current - 1)
	}
}

// JumpTo moves to target. Moving backward or staying put always succeeds;
// moving forward requires the current step to be valid. Targets outside the
// step range are refused.
func (c *Controller[T, P]) JumpTo(ctx context.Context, target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target < 0 || target >= len(c.steps) {
		return false
	}
	if target <= c.current {
		c.moveTo(target)
		return true
	}
	if !c.validateCurrent(ctx) {
		return false
	}
	c.moveTo(target)
	return true
}

// Reset returns to the first step. Field values are left untouched.
func (c *Controller[T, P]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(0)
}

// Restore repositions the controller from a persisted index, clamped to the
// step range. Error markers and observers are not touched.
func (c *Controller[T, P]) Restore(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case index < 0:
		index = 0
	case index >= len(c.steps):
		index = len(c.steps) - 1
	}
	c.current = index
}

// Snapshot is a consistent view of the controller and its form errors.
type Snapshot struct {
	Index   int               `json:"current_step_index"`
	IsFirst bool              `json:"is_first_step"`
	IsLast  bool              `json:"is_last_step"`
	Steps   []StepSummary     `json:"steps"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Snapshot reads the index and error markers under one lock so no
// intermediate state of a transition is observed.
func (c *Controller[T, P]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Index:   c.current,
		IsFirst: c.current == 0,
		IsLast:  c.current == len(c.steps)-1,
		Steps:   c.Steps(),
		Errors:  c.form.Errors(),
	}
}

func (c *Controller[T, P]) validateCurrent(ctx context.Context) bool {
	return c.form.Trigger(ctx, c.steps[c.current].Fields())
}

// moveTo must be called with mu held.
func (c *Controller[T, P]) moveTo(index int) {
	if index == c.current {
		return
	}
	from := c.current
	c.current = index
	c.form.ClearErrors()
	if c.onMove != nil {
		c.onMove(from, index)
	}
}
