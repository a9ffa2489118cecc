package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither VISUAL nor EDITOR is set.
var ErrNoEditor = errors.New("EDITOR not set; set it or pass field flags instead of -i")

// ErrEditCancelled is returned when the edited product document is left
// with nothing but comments and blank lines.
var ErrEditCancelled = errors.New("edit cancelled: product document was emptied")

// EditProduct opens doc, the YAML form of product id, in the user's editor
// and returns the saved document. The temp file is named after the product
// (pm-product-3-*.yaml) so it is recognisable in the editor's title bar.
// Emptying the document cancels the edit.
func EditProduct(id int, doc []byte) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, ErrNoEditor
	}

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("pm-product-%d-*.yaml", id))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	_, writeErr := tmpFile.Write(doc)
	closeErr := tmpFile.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	if isBlankDocument(edited) {
		return nil, ErrEditCancelled
	}
	return edited, nil
}

// isBlankDocument reports whether doc holds only comments and whitespace.
func isBlankDocument(doc []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(doc))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}
	return true
}

// getEditor prefers VISUAL over EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor runs editor on path. The editor string may carry arguments,
// e.g. "code --wait".
func runEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
