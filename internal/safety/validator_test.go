package safety

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestValidateDeleteTarget(t *testing.T) {
	protected := filepath.FromSlash("/opt/critical")
	v := &Validator{ProtectedPaths: []string{protected}}

	cases := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty path", "", ErrInvalidPath},
		{"whitespace path", "   ", ErrInvalidPath},
		{"filesystem root", "/", ErrProtectedPath},
		{"protected path itself", protected, ErrProtectedPath},
		{"inside protected path", filepath.Join(protected, "data"), ErrProtectedPath},
		{"sibling of protected path", filepath.FromSlash("/opt/criticalish"), nil},
		{"ordinary path", filepath.FromSlash("/tmp/scratch/file.txt"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateDeleteTarget(tc.path)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateDeleteTarget(%q) = %v, want nil", tc.path, err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateDeleteTarget(%q) = %v, want %v", tc.path, err, tc.wantErr)
			}
		})
	}
}

func TestValidatorDisabled(t *testing.T) {
	v := &Validator{ProtectedPaths: []string{filepath.FromSlash("/opt/critical")}, Disabled: true}
	if err := v.ValidateDeleteTarget("/"); err != nil {
		t.Errorf("disabled validator should allow anything, got %v", err)
	}
}

func TestNewValidatorIncludesSystemPaths(t *testing.T) {
	v := NewValidator([]string{filepath.FromSlash("/srv/keep")})
	if len(v.ProtectedPaths) < 2 {
		t.Fatalf("expected built-in protected paths plus the extra, got %v", v.ProtectedPaths)
	}
	if !IsProtectedPath(filepath.FromSlash("/srv/keep/sub"), v.ProtectedPaths) {
		t.Error("extra protected prefix not honored")
	}
}

func TestIsFilesystemRoot(t *testing.T) {
	cases := map[string]bool{
		"/":                               true,
		filepath.FromSlash("/tmp"):        false,
		filepath.FromSlash("/tmp/a/b/c"):  false,
	}
	for path, want := range cases {
		if got := isFilesystemRoot(path); got != want {
			t.Errorf("isFilesystemRoot(%q) = %v, want %v", path, got, want)
		}
	}
}
