package model

import (
	"time"

	"github.com/google/uuid"
)

// LayoutTemplate is a named, reusable split layout: a normalized selection,
// a grid and the border option. Templates are independent of any image.
type LayoutTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Selection   Rect     `json:"selection"` // fractions of image width/height
	Grid        GridSpec `json:"grid"`
	CutBorder   bool     `json:"cut_border"`
}

// NewLayoutTemplate captures the current layout under a name.
func NewLayoutTemplate(name, description string, selection Rect, grid GridSpec, cutBorder bool) LayoutTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return LayoutTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Selection:   selection,
		Grid:        grid,
		CutBorder:   cutBorder,
	}
}

// ApplyTo writes the template's layout into a config.
func (t LayoutTemplate) ApplyTo(cfg *AppConfig) {
	cfg.SetSelection(t.Selection)
	cfg.GridRows = t.Grid.Rows
	cfg.GridCols = t.Grid.Cols
	cfg.CutBorder = t.CutBorder
	cfg.Normalize()
}

// TemplateStore holds a collection of layout templates.
type TemplateStore struct {
	Templates []LayoutTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LayoutTemplate{},
	}
}

// Add adds a template, replacing any existing template with the same name.
func (ts *TemplateStore) Add(t LayoutTemplate) {
	if existing := ts.FindByName(t.Name); existing != nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		*existing = t
		return
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}
