package orgunit_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/stayfix/stayfix/internal"
	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/orgunit"
	orgunitPostgres "github.com/stayfix/stayfix/internal/orgunit/postgres"
	"github.com/stayfix/stayfix/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("OrgUnit Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *orgunit.Handler
	)

	const userID = "user-1"

	request := func(method, target, body string) *http.Request {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		return req.WithContext(internal.ContextWithUserID(req.Context(), userID))
	}

	decode := func(w *httptest.ResponseRecorder, dst interface{}) {
		Expect(json.NewDecoder(w.Body).Decode(dst)).To(Succeed())
	}

	create := func(body string) *orgunit.OrgUnit {
		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/org-units", body))
		Expect(w.Code).To(Equal(http.StatusCreated))
		var u orgunit.OrgUnit
		decode(w, &u)
		return &u
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&orgunitDatamodel.OrgUnit{})).To(Succeed())

		repo := orgunitPostgres.NewOrgUnitRepository(db)
		service := orgunit.NewService(repo, events.NopPublisher{}, slogger)
		handler = orgunit.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	It("rejects unauthenticated requests", func() {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/org-units", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("creates a hierarchy and renders it as a tree", func() {
		root := create(`{"name":"Geschäftsführung"}`)
		Expect(*root.Level).To(Equal(1))

		child := create(`{"name":"Personal","parentId":"` + root.ID + `","supervisorName":"Frau Schulz"}`)
		Expect(*child.Level).To(Equal(2))

		w := httptest.NewRecorder()
		handler.Tree(w, request(http.MethodGet, "/org-units/tree", ""))
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			Tree []struct {
				ID       string `json:"id"`
				Children []struct {
					Name           string `json:"name"`
					SupervisorName string `json:"supervisorName"`
				} `json:"children"`
			} `json:"tree"`
		}
		decode(w, &resp)
		Expect(resp.Tree).To(HaveLen(1))
		Expect(resp.Tree[0].ID).To(Equal(root.ID))
		Expect(resp.Tree[0].Children).To(HaveLen(1))
		Expect(resp.Tree[0].Children[0].Name).To(Equal("Personal"))
		Expect(resp.Tree[0].Children[0].SupervisorName).To(Equal("Frau Schulz"))
	})

	It("returns 400 for a missing name", func() {
		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/org-units", `{"name":""}`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]interface{}
		decode(w, &body)
		Expect(body["error"]).To(Equal("Name ist erforderlich."))
	})

	It("patches a unit and reports unknown ids as 404", func() {
		root := create(`{"name":"Root"}`)
		other := create(`{"name":"Other"}`)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPatch, "/org-units", `{"id":"`+other.ID+`","parentId":"`+root.ID+`"}`))
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated orgunit.OrgUnit
		decode(w, &updated)
		Expect(*updated.ParentID).To(Equal(root.ID))
		Expect(*updated.Level).To(Equal(2))
		Expect(updated.Name).To(Equal("Other"))

		w = httptest.NewRecorder()
		handler.Update(w, request(http.MethodPatch, "/org-units", `{"id":"nope"}`))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("reorders siblings and lists them in the new order", func() {
		root := create(`{"name":"Root"}`)
		a := create(`{"name":"A","parentId":"` + root.ID + `"}`)
		b := create(`{"name":"B","parentId":"` + root.ID + `"}`)
		c := create(`{"name":"C","parentId":"` + root.ID + `"}`)

		w := httptest.NewRecorder()
		handler.Reorder(w, request(http.MethodPost, "/org-units/reorder", `{"orderedIds":["`+c.ID+`","`+a.ID+`","`+b.ID+`"]}`))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success":true}`))

		w = httptest.NewRecorder()
		handler.List(w, request(http.MethodGet, "/org-units", ""))
		var resp orgunit.UnitsResponse
		decode(w, &resp)

		var names []string
		for _, u := range resp.Units {
			names = append(names, u.Name)
		}
		Expect(names).To(Equal([]string{"Root", "C", "A", "B"}))
	})

	It("refuses cross-level reorders", func() {
		root := create(`{"name":"Root"}`)
		child := create(`{"name":"Child","parentId":"` + root.ID + `"}`)

		w := httptest.NewRecorder()
		handler.Reorder(w, request(http.MethodPost, "/org-units/reorder", `{"orderedIds":["`+root.ID+`","`+child.ID+`"]}`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]interface{}
		decode(w, &body)
		Expect(body["error"]).To(Equal("Reihenfolge-Update ist nur innerhalb einer Ebene erlaubt."))
	})

	It("rejects a malformed reorder body", func() {
		w := httptest.NewRecorder()
		handler.Reorder(w, request(http.MethodPost, "/org-units/reorder", `{"orderedIds":"x"}`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes by query id", func() {
		u := create(`{"name":"Weg"}`)

		w := httptest.NewRecorder()
		handler.Delete(w, request(http.MethodDelete, "/org-units?id="+u.ID, ""))
		Expect(w.Code).To(Equal(http.StatusOK))

		var count int64
		db.Model(&orgunitDatamodel.OrgUnit{}).Count(&count)
		Expect(count).To(BeZero())
	})
})
