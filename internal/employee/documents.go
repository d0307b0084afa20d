package employee

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stayfix/stayfix/internal"
)

const DocumentBucket = "dokumente"

var (
	ErrEmployeeIDRequired = internal.NewValidationError("employeeId ist erforderlich.", internal.ErrCodeIDRequired)
	ErrNoFiles            = internal.NewValidationError("Keine Dateien übermittelt.", internal.ErrCodeNoFiles)
	ErrDocumentNotFound   = internal.NewNotFoundError("Dokument nicht gefunden.", internal.ErrCodeDocumentNotFound)
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// SafeName replaces every character outside [a-zA-Z0-9._-] with an underscore.
func SafeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// DocumentPath is the object path of an upload inside DocumentBucket.
func DocumentPath(employeeID string, unixMillis int64, name string) string {
	return fmt.Sprintf("employees/%s/%d-%s", employeeID, unixMillis, SafeName(name))
}

func fileTooLarge(name string) *internal.AppError {
	return internal.NewValidationFieldError("files", fmt.Sprintf("Datei ist zu groß: %s", name), internal.ErrCodeFileTooLarge)
}

// UploadDocuments stores files and appends them to the employee's document list.
// Stored objects are removed again when the list cannot be written.
func (s *Service) UploadDocuments(ctx context.Context, userID, employeeID string, files []UploadFile) ([]Document, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrEmployeeIDRequired
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for _, f := range files {
		if s.maxUpload > 0 && int64(len(f.Data)) > s.maxUpload {
			return nil, fileTooLarge(f.Name)
		}
	}

	row, err := s.repo.GetByID(ctx, userID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	stamp := s.now().UnixMilli()
	added := make([]Document, 0, len(files))
	for i, f := range files {
		// Distinct stamps keep same-named files in one upload apart.
		p := DocumentPath(employeeID, stamp+int64(i), f.Name)
		size, err := s.store.Put(ctx, DocumentBucket, p, bytes.NewReader(f.Data))
		if err != nil {
			s.removeObjects(ctx, added)
			return nil, fmt.Errorf("store document %s: %w", f.Name, err)
		}
		added = append(added, Document{
			Name:        f.Name,
			Path:        p,
			ContentType: mimetype.Detect(f.Data).String(),
			Size:        size,
		})
	}

	docs := append(append([]Document{}, row.DocumentURLs...), added...)
	if err := s.repo.UpdateDocuments(ctx, userID, employeeID, docs); err != nil {
		s.removeObjects(ctx, added)
		s.logger.Error("failed to save document list", "employee_id", employeeID, "error", err)
		return nil, fmt.Errorf("update documents: %w", err)
	}
	s.logger.Info("documents uploaded", "employee_id", employeeID, "count", len(added))
	return docs, nil
}

// RemoveDocument drops the entry with path from the list and deletes the stored object.
func (s *Service) RemoveDocument(ctx context.Context, userID, employeeID, path string) ([]Document, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrEmployeeIDRequired
	}
	row, err := s.repo.GetByID(ctx, userID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	docs := make([]Document, 0, len(row.DocumentURLs))
	found := false
	for _, d := range row.DocumentURLs {
		if d.Path == path {
			found = true
			continue
		}
		docs = append(docs, d)
	}
	if !found {
		return nil, ErrDocumentNotFound
	}

	if err := s.repo.UpdateDocuments(ctx, userID, employeeID, docs); err != nil {
		return nil, fmt.Errorf("update documents: %w", err)
	}
	if err := s.store.Delete(ctx, DocumentBucket, path); err != nil {
		s.logger.Warn("failed to delete stored document", "path", path, "error", err)
	}
	return docs, nil
}

func (s *Service) removeObjects(ctx context.Context, docs []Document) {
	for _, d := range docs {
		if err := s.store.Delete(ctx, DocumentBucket, d.Path); err != nil {
			s.logger.Warn("failed to clean up stored document", "path", d.Path, "error", err)
		}
	}
}
