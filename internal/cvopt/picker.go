package cvopt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"jobfinder-engine/internal/domain"

	"github.com/ncruces/zenity"
)

// AllowedExtensions are the document types the CV picker accepts.
var AllowedExtensions = []string{".pdf", ".docx"}

// ChooseFile validates a picked path and returns it absolute. An empty path
// means the user cancelled and yields "".
func ChooseFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, a := range AllowedExtensions {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return "", domain.Invalid("Only .pdf and .docx files can be selected.")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// SelectedLabel is the text shown under the picker.
func SelectedLabel(path string) string {
	if path == "" {
		return "No file selected."
	}
	return "Selected file: " + filepath.Base(path)
}

// Dialog asks the user for a CV file. A cancel returns "" and no error.
type Dialog func(ctx context.Context) (string, error)

// NativeDialog is the OS file picker, limited to the accepted document types.
func NativeDialog(ctx context.Context) (string, error) {
	patterns := make([]string, len(AllowedExtensions))
	for i, ext := range AllowedExtensions {
		patterns[i] = "*" + ext
	}
	p, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title("Select your CV"),
		zenity.FileFilter{Name: "CV documents (.pdf, .docx)", Patterns: patterns, CaseFold: true},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return p, err
}

// Pick shows d and validates the answer like a typed path.
func Pick(ctx context.Context, d Dialog) (string, error) {
	p, err := d(ctx)
	if err != nil {
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return ChooseFile(p)
}
