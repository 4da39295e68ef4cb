package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get(SettingThemeIndex); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on missing key error = %v, want ErrNotFound", err)
	}

	if err := settings.Set(SettingThemeIndex, "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := settings.Set(SettingThemeIndex, "2"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	v, err := settings.Get(SettingThemeIndex)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != "2" {
		t.Errorf("Get() = %q, want \"2\"", v)
	}
}

func TestSettingsRepository_Int(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if got := settings.GetInt(SettingThemeIndex, 7); got != 7 {
		t.Errorf("GetInt() missing = %d, want default 7", got)
	}

	if err := settings.SetInt(SettingThemeIndex, 2); err != nil {
		t.Fatalf("SetInt() error = %v", err)
	}
	if got := settings.GetInt(SettingThemeIndex, 7); got != 2 {
		t.Errorf("GetInt() = %d, want 2", got)
	}

	if err := settings.Set(SettingThemeIndex, "two"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := settings.GetInt(SettingThemeIndex, 7); got != 7 {
		t.Errorf("GetInt() malformed = %d, want default 7", got)
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if err := settings.Set(SettingEnabled, "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := settings.Delete(SettingEnabled); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := settings.Get(SettingEnabled); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := settings.Delete(SettingEnabled); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
