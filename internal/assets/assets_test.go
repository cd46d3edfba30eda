package assets

import (
	"errors"
	"testing"
)

func TestPackageLevelLoaders(t *testing.T) {
	t.Parallel()

	t.Run("LoadStyle", func(t *testing.T) {
		t.Parallel()

		css, err := LoadStyle(DefaultStyleName)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if css == "" {
			t.Error("LoadStyle() returned empty CSS")
		}
	})

	t.Run("LoadTemplate", func(t *testing.T) {
		t.Parallel()

		tmpl, err := LoadTemplate(DefaultTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if tmpl == "" {
			t.Error("LoadTemplate() returned empty template")
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadStyle("nope"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("Styles includes default", func(t *testing.T) {
		t.Parallel()

		found := false
		for _, s := range Styles() {
			if s == DefaultStyleName {
				found = true
			}
		}
		if !found {
			t.Errorf("Styles() = %v, missing %q", Styles(), DefaultStyleName)
		}
	})
}
