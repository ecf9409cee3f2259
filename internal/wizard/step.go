package wizard

// FieldView describes one input of a rendered step.
type FieldView struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// View is the rendered form of a step.
type View struct {
	StepID int         `json:"step_id"`
	Name   string      `json:"name"`
	Fields []FieldView `json:"fields"`
}

// Renderer renders a step's fields from the props shared by every step.
type Renderer[P any] interface {
	Render(props P) View
}

// RenderFunc adapts a function to Renderer.
type RenderFunc[P any] func(props P) View

// Render implements Renderer.
func (f RenderFunc[P]) Render(props P) View {
	return f(props)
}

// Step is one page of a multi-step form. Steps are plain values; they are
// never mutated once handed to a Controller.
type Step[P any] struct {
	ID     int
	Name   string
	Render Renderer[P]
	Schema Schema
	// FieldsToValidate overrides the fields taken from Schema when set.
	FieldsToValidate []string
}

// Fields resolves the field paths validated when leaving this step.
func (s Step[P]) Fields() []string {
	if len(s.FieldsToValidate) > 0 {
		out := make([]string, len(s.FieldsToValidate))
		copy(out, s.FieldsToValidate)
		return out
	}
	if s.Schema == nil {
		return nil
	}
	return s.Schema.Fields()
}

// StepSummary is the navigation entry for a step.
type StepSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
