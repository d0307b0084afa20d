package employee

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/transport"
)

const (
	maxMultipartMemory = 32 << 20
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string, filter ListFilter) ([]*Employee, error)
	Create(ctx context.Context, userID string, input CreateEmployeeInput) (*Employee, error)
	Update(ctx context.Context, userID string, input UpdateEmployeeInput) (*Employee, error)
	Delete(ctx context.Context, userID, id string) error
	UploadDocuments(ctx context.Context, userID, employeeID string, files []UploadFile) ([]Document, error)
	RemoveDocument(ctx context.Context, userID, employeeID, path string) ([]Document, error)
	Export(ctx context.Context, userID string, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := ListFilter{
		Query:     query.Get("q"),
		Status:    query.Get("status"),
		OrgUnitID: query.Get("orgUnitId"),
		Validity:  Validity(query.Get("validity")),
	}

	employees, err := h.Service.List(r.Context(), userID, filter)
	if err != nil {
		h.Logger.Error("List: failed to list employees", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input CreateEmployeeInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	employee, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Create: failed to create employee", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, employee)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input UpdateEmployeeInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	employee, err := h.Service.Update(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Update: failed to update employee", "error", err, "id", input.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, employee)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.IDFromRequest(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.Logger.Error("Delete: failed to delete employee", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// UploadDocuments accepts multipart form data with employeeId and files (or files[]).
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Warn("UploadDocuments: invalid multipart body", "error", err)
		h.HandleServiceError(w, internal.ErrInvalidBody)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	employeeID := r.FormValue("employeeId")
	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["files[]"]...)

	files := make([]UploadFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			h.Logger.Error("UploadDocuments: failed to read upload", "error", err, "file", fh.Filename)
			h.HandleServiceError(w, internal.ErrInvalidBody)
			return
		}
		files = append(files, UploadFile{Name: fh.Filename, Data: data})
	}

	docs, err := h.Service.UploadDocuments(r.Context(), userID, employeeID, files)
	if err != nil {
		h.Logger.Error("UploadDocuments: failed to upload documents", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DocumentsResponse{Success: true, Documents: docs})
}

func (h *Handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	path := r.URL.Query().Get("path")

	docs, err := h.Service.RemoveDocument(r.Context(), userID, employeeID, path)
	if err != nil {
		h.Logger.Error("RemoveDocument: failed to remove document", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DocumentsResponse{Success: true, Documents: docs})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), userID, &buf); err != nil {
		h.Logger.Error("Export: failed to export employees", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="mitarbeitende.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Export: failed to write response", "error", err)
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
