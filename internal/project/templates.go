package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/GridCut/internal/model"
)

// TemplatePath returns the saved-layouts file kept next to a config file,
// ~/.gridcut/layouts.json for the default config.
func TemplatePath(cfgPath string) string {
	return filepath.Join(filepath.Dir(cfgPath), "layouts.json")
}

// SaveTemplates writes the layout store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads a layout store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.LayoutTemplate{}
	}
	return store, nil
}
