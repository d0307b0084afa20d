package employee_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/patch"
	employeeDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/employee"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"github.com/stayfix/stayfix/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements employee.RepositoryAPI for testing
type MockRepository struct {
	rows        map[string]*employeeDatamodel.Employee
	order       []string
	shouldFail  bool
	failDocs    bool
	failError   error
	createCalls int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{rows: make(map[string]*employeeDatamodel.Employee)}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) List(_ context.Context, userID, status, orgUnitID string) ([]*employeeDatamodel.Employee, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*employeeDatamodel.Employee
	for _, id := range m.order {
		row, ok := m.rows[id]
		if !ok || row.UserID != userID {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		if orgUnitID != "" && (row.OrgUnitID == nil || *row.OrgUnitID != orgUnitID) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *MockRepository) GetByID(_ context.Context, userID, id string) (*employeeDatamodel.Employee, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (m *MockRepository) Create(_ context.Context, row *employeeDatamodel.Employee) error {
	if m.shouldFail {
		return m.failError
	}
	m.createCalls++
	if row.ID == "" {
		row.ID = "emp-" + string(rune('a'+m.createCalls-1))
	}
	m.rows[row.ID] = row
	m.order = append(m.order, row.ID)
	return nil
}

func (m *MockRepository) Update(_ context.Context, row *employeeDatamodel.Employee) error {
	if m.shouldFail {
		return m.failError
	}
	m.rows[row.ID] = row
	return nil
}

func (m *MockRepository) Delete(_ context.Context, userID, id string) error {
	if m.shouldFail {
		return m.failError
	}
	if row, ok := m.rows[id]; ok && row.UserID == userID {
		delete(m.rows, id)
	}
	return nil
}

func (m *MockRepository) UpdateDocuments(_ context.Context, userID, id string, docs []employee.Document) error {
	if m.shouldFail || m.failDocs {
		return errors.New("document list write failed")
	}
	if row, ok := m.rows[id]; ok && row.UserID == userID {
		row.DocumentURLs = docs
	}
	return nil
}

// MockReferences implements employee.ReferenceChecker for testing
type MockReferences struct {
	rules  map[string]bool
	units  map[string]bool
	titles map[string]*residencetitle.ResidenceTitle
}

func (m *MockReferences) RuleExists(_ context.Context, _ string, id string) (bool, error) {
	return m.rules[id], nil
}

func (m *MockReferences) OrgUnitExists(_ context.Context, _ string, id string) (bool, error) {
	return m.units[id], nil
}

func (m *MockReferences) ResidenceTitle(_ context.Context, _ string, id string) (*residencetitle.ResidenceTitle, error) {
	return m.titles[id], nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func boolPtr(b bool) *bool { return &b }

var pdfBytes = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")

var _ = Describe("Employee Service", func() {
	var (
		ctx       context.Context
		mockRepo  *MockRepository
		refs      *MockReferences
		store     *storage.FSStore
		publisher *recordingPublisher
		service   *employee.Service
	)

	const userID = "user-1"
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		refs = &MockReferences{
			rules: map[string]bool{"rule-1": true},
			units: map[string]bool{"unit-1": true},
			titles: map[string]*residencetitle.ResidenceTitle{
				"title-free": {ID: "title-free", Name: "Niederlassungserlaubnis"},
				"title-strict": {
					ID:                  "title-strict",
					Name:                "Blaue Karte EU",
					RequirePermitNumber: true,
					RequireValidUntil:   true,
				},
			},
		}
		store = storage.NewMemStore()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(mockRepo, refs, store, publisher, logger, employee.Options{
			MaxUploadBytes: 1024,
			Now:            func() time.Time { return now },
		})
	})

	base := func() employee.CreateEmployeeInput {
		return employee.CreateEmployeeInput{
			FirstName: " Ada ",
			LastName:  "Lovelace",
			Birthdate: strPtr("1990-05-01"),
		}
	}

	create := func(input employee.CreateEmployeeInput) *employee.Employee {
		e, err := service.Create(ctx, userID, input)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	Describe("Create", func() {
		It("requires first name, last name and birthdate", func() {
			for _, mutate := range []func(*employee.CreateEmployeeInput){
				func(in *employee.CreateEmployeeInput) { in.FirstName = "  " },
				func(in *employee.CreateEmployeeInput) { in.LastName = "" },
				func(in *employee.CreateEmployeeInput) { in.Birthdate = nil },
			} {
				input := base()
				mutate(&input)
				_, err := service.Create(ctx, userID, input)
				Expect(err).To(MatchError(employee.ErrRequiredFields))
			}
			Expect(mockRepo.createCalls).To(BeZero())
		})

		It("rejects malformed dates", func() {
			input := base()
			input.ValidUntil = strPtr("31.12.2026")
			_, err := service.Create(ctx, userID, input)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Ungültiges Datum: validUntil"))
		})

		It("trims strings and maps blanks to null", func() {
			input := base()
			input.City = strPtr("  ")
			input.Email = strPtr(" ada@example.com ")
			e := create(input)
			Expect(e.FirstName).To(Equal("Ada"))
			Expect(e.City).To(BeNil())
			Expect(*e.Email).To(Equal("ada@example.com"))
			Expect(e.DocumentURLs).To(BeEmpty())
			Expect(e.DocumentURLs).NotTo(BeNil())
		})

		It("opens an active employee without a residence title", func() {
			e := create(base())
			Expect(e.Status).To(Equal(employee.StatusOpen))
		})

		It("keeps active when a residence title is attached", func() {
			input := base()
			input.ResidenceTitleID = strPtr("title-free")
			input.Status = strPtr(employee.StatusActive)
			Expect(create(input).Status).To(Equal(employee.StatusActive))
		})

		It("rejects unknown status values", func() {
			input := base()
			input.Status = strPtr("retired")
			_, err := service.Create(ctx, userID, input)
			Expect(err).To(MatchError(employee.ErrInvalidStatus))
		})

		It("rejects references the user does not own", func() {
			input := base()
			input.NotificationRuleID = strPtr("rule-x")
			_, err := service.Create(ctx, userID, input)
			Expect(err).To(MatchError(employee.ErrRuleNotAllowed))

			input = base()
			input.ResidenceTitleID = strPtr("title-x")
			_, err = service.Create(ctx, userID, input)
			Expect(err).To(MatchError(employee.ErrTitleNotAllowed))

			input = base()
			input.OrgUnitID = strPtr("unit-x")
			_, err = service.Create(ctx, userID, input)
			Expect(err).To(MatchError(employee.ErrUnitNotAllowed))
		})

		It("enforces the fields the residence title requires", func() {
			input := base()
			input.ResidenceTitleID = strPtr("title-strict")
			_, err := service.Create(ctx, userID, input)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("Pflichtfeld fehlt: permitNumber; Pflichtfeld fehlt: validUntil"))

			input.PermitNumber = strPtr("X123")
			input.ValidUntil = strPtr("2027-01-31")
			e := create(input)
			Expect(e.ValidUntil.String()).To(Equal("2027-01-31"))
		})

		It("wraps store failures", func() {
			mockRepo.SetShouldFail(true, errors.New("connection refused"))
			_, err := service.Create(ctx, userID, base())
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})
	})

	Describe("Update", func() {
		It("requires an id and an existing employee", func() {
			_, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{})
			Expect(err).To(MatchError(internal.ErrIDRequired))
			_, err = service.Update(ctx, userID, employee.UpdateEmployeeInput{ID: "missing"})
			Expect(err).To(MatchError(employee.ErrNotFound))
		})

		It("does not leak employees across users", func() {
			e := create(base())
			_, err := service.Update(ctx, "user-2", employee.UpdateEmployeeInput{ID: e.ID, Note: patch.Value("x")})
			Expect(err).To(MatchError(employee.ErrNotFound))
		})

		It("changes only present fields and clears explicit nulls", func() {
			input := base()
			input.City = strPtr("Berlin")
			input.Phone = strPtr("030 123")
			e := create(input)

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:    e.ID,
				City:  patch.Null[string](),
				Email: patch.Value("ada@example.com"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.City).To(BeNil())
			Expect(*updated.Phone).To(Equal("030 123"))
			Expect(*updated.Email).To(Equal("ada@example.com"))
			Expect(updated.FirstName).To(Equal("Ada"))
		})

		It("activates an open employee when a title is attached and publishes the change", func() {
			e := create(base())
			Expect(e.Status).To(Equal(employee.StatusOpen))

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:               e.ID,
				ResidenceTitleID: patch.Value("title-free"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(employee.StatusActive))
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeEmployeeStatusChanged))
			Expect(publisher.published[0].Payload()).To(HaveKeyWithValue("to", employee.StatusActive))
		})

		It("opens an active employee when the title is removed", func() {
			input := base()
			input.ResidenceTitleID = strPtr("title-free")
			e := create(input)

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:               e.ID,
				ResidenceTitleID: patch.Null[string](),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(employee.StatusOpen))
			Expect(updated.ResidenceTitleID).To(BeNil())
		})

		It("applies an explicit status before the title rule", func() {
			e := create(base())
			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:     e.ID,
				Status: strPtr(employee.StatusInactive),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(employee.StatusInactive))

			updated, err = service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:     e.ID,
				Status: strPtr(employee.StatusActive),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(employee.StatusOpen))
		})

		It("keeps inactive employees inactive when the title is removed", func() {
			input := base()
			input.ResidenceTitleID = strPtr("title-free")
			input.Status = strPtr(employee.StatusInactive)
			e := create(input)

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:               e.ID,
				ResidenceTitleID: patch.Null[string](),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(employee.StatusInactive))
			Expect(publisher.published).To(BeEmpty())
		})

		It("rejects blank required fields", func() {
			e := create(base())
			_, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{ID: e.ID, LastName: strPtr(" ")})
			Expect(err).To(MatchError(employee.ErrRequiredFields))
		})

		It("enforces title requirements when permit fields change", func() {
			input := base()
			input.ResidenceTitleID = strPtr("title-strict")
			input.PermitNumber = strPtr("X123")
			input.ValidUntil = strPtr("2027-01-31")
			e := create(input)

			_, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:           e.ID,
				PermitNumber: patch.Null[string](),
			})
			Expect(err).To(MatchError(ContainSubstring("Pflichtfeld fehlt: permitNumber")))

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:            e.ID,
				PriorityCheck: patch.Value(true),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.PriorityCheck).To(BeTrue())
		})

		It("validates newly assigned references", func() {
			e := create(base())
			_, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:        e.ID,
				OrgUnitID: patch.Value("unit-x"),
			})
			Expect(err).To(MatchError(employee.ErrUnitNotAllowed))

			updated, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{
				ID:                 e.ID,
				OrgUnitID:          patch.Value("unit-1"),
				NotificationRuleID: patch.Value("rule-1"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.OrgUnitID).To(Equal("unit-1"))
			Expect(*updated.NotificationRuleID).To(Equal("rule-1"))
		})
	})

	Describe("List", func() {
		It("filters by store criteria, query and validity", func() {
			a := base()
			a.OrgUnitID = strPtr("unit-1")
			a.ValidUntil = strPtr("2026-03-01")
			create(a)
			b := base()
			b.FirstName = "Grace"
			b.LastName = "Hopper"
			b.ValidUntil = strPtr("2026-03-25")
			create(b)

			all, err := service.List(ctx, userID, employee.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			inUnit, err := service.List(ctx, userID, employee.ListFilter{OrgUnitID: "unit-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(inUnit).To(HaveLen(1))
			Expect(inUnit[0].FirstName).To(Equal("Ada"))

			soon, err := service.List(ctx, userID, employee.ListFilter{Validity: employee.ValidityExpiring30})
			Expect(err).NotTo(HaveOccurred())
			Expect(soon).To(HaveLen(1))
			Expect(soon[0].LastName).To(Equal("Hopper"))

			found, err := service.List(ctx, userID, employee.ListFilter{Query: "grace"})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
		})
	})

	Describe("Documents", func() {
		var e *employee.Employee

		BeforeEach(func() {
			e = create(base())
		})

		It("validates the upload request", func() {
			_, err := service.UploadDocuments(ctx, userID, "", []employee.UploadFile{{Name: "a.pdf", Data: pdfBytes}})
			Expect(err).To(MatchError(employee.ErrEmployeeIDRequired))

			_, err = service.UploadDocuments(ctx, userID, e.ID, nil)
			Expect(err).To(MatchError(employee.ErrNoFiles))

			_, err = service.UploadDocuments(ctx, userID, "missing", []employee.UploadFile{{Name: "a.pdf", Data: pdfBytes}})
			Expect(err).To(MatchError(employee.ErrNotFound))

			big := make([]byte, 2048)
			_, err = service.UploadDocuments(ctx, userID, e.ID, []employee.UploadFile{{Name: "big.bin", Data: big}})
			Expect(err).To(MatchError(ContainSubstring("Datei ist zu groß: big.bin")))
		})

		It("stores files and appends them to the list", func() {
			docs, err := service.UploadDocuments(ctx, userID, e.ID, []employee.UploadFile{{Name: "Pass Kopie.pdf", Data: pdfBytes}})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Name).To(Equal("Pass Kopie.pdf"))
			Expect(docs[0].Path).To(Equal(employee.DocumentPath(e.ID, now.UnixMilli(), "Pass Kopie.pdf")))
			Expect(docs[0].ContentType).To(Equal("application/pdf"))
			Expect(docs[0].Size).To(Equal(int64(len(pdfBytes))))

			rc, err := store.Open(ctx, employee.DocumentBucket, docs[0].Path)
			Expect(err).NotTo(HaveOccurred())
			data, err := io.ReadAll(rc)
			Expect(rc.Close()).To(Succeed())
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal(pdfBytes))

			docs, err = service.UploadDocuments(ctx, userID, e.ID, []employee.UploadFile{{Name: "b.pdf", Data: pdfBytes}})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].Name).To(Equal("Pass Kopie.pdf"))
			Expect(docs[1].Name).To(Equal("b.pdf"))
		})

		It("removes stored objects when the list cannot be written", func() {
			mockRepo.failDocs = true
			_, err := service.UploadDocuments(ctx, userID, e.ID, []employee.UploadFile{{Name: "a.pdf", Data: pdfBytes}})
			Expect(err).To(HaveOccurred())

			exists, err := store.Exists(ctx, employee.DocumentBucket, employee.DocumentPath(e.ID, now.UnixMilli(), "a.pdf"))
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})

		It("removes a single document and its object", func() {
			docs, err := service.UploadDocuments(ctx, userID, e.ID, []employee.UploadFile{
				{Name: "a.pdf", Data: pdfBytes},
				{Name: "b.pdf", Data: pdfBytes},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs[0].Path).NotTo(Equal(docs[1].Path))

			_, err = service.RemoveDocument(ctx, userID, e.ID, "employees/unknown")
			Expect(err).To(MatchError(employee.ErrDocumentNotFound))

			remaining, err := service.RemoveDocument(ctx, userID, e.ID, docs[0].Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].Name).To(Equal("b.pdf"))

			exists, err := store.Exists(ctx, employee.DocumentBucket, docs[0].Path)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	It("deletes employees", func() {
		e := create(base())
		Expect(service.Delete(ctx, userID, "")).To(MatchError(internal.ErrIDRequired))
		Expect(service.Delete(ctx, userID, e.ID)).To(Succeed())
		_, err := service.Update(ctx, userID, employee.UpdateEmployeeInput{ID: e.ID})
		Expect(err).To(MatchError(employee.ErrNotFound))
	})

	It("ignores an unset priority flag", func() {
		input := base()
		input.PriorityCheck = boolPtr(false)
		e := create(input)
		Expect(*e.PriorityCheck).To(BeFalse())
	})
})
