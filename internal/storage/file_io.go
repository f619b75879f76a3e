// This file handles the export of backend listings to local files.
package storage

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"maji/local-app/internal/model"
)

type usersExport struct {
	XMLName xml.Name     `json:"-" xml:"usuarios"`
	Users   []model.User `json:"usuarios" xml:"usuario"`
}

type questionsExport struct {
	XMLName   xml.Name         `json:"-" xml:"encuestas"`
	Questions []model.Question `json:"encuestas" xml:"encuesta"`
}

// FormatFromFilename picks the export format from the file extension,
// defaulting to JSON.
func FormatFromFilename(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".xml") {
		return "xml"
	}
	return "json"
}

// ExportUsers writes the user list to a file in the specified format (JSON or XML).
// Passwords are never written.
func ExportUsers(filename, format string, users []model.User) error {
	clean := make([]model.User, len(users))
	for i, u := range users {
		u.Password = ""
		clean[i] = u
	}
	return fileExport(filename, format, usersExport{Users: clean})
}

// ExportQuestions writes the survey questions to a file in the specified format.
func ExportQuestions(filename, format string, questions []model.Question) error {
	return fileExport(filename, format, questionsExport{Questions: questions})
}

func fileExport(filename, format string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
	case "xml":
		data, err = xml.MarshalIndent(v, "", "  ")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	// Write the data to the file
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
