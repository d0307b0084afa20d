package employee_test

import (
	"encoding/json"
	"time"

	"github.com/stayfix/stayfix/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(s string) *employee.Date {
	t, err := time.Parse(time.DateOnly, s)
	Expect(err).NotTo(HaveOccurred())
	d := employee.Date(t)
	return &d
}

func strPtr(s string) *string { return &s }

var _ = Describe("Employee", func() {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	Describe("status derivation", func() {
		DescribeTable("InitialStatus",
			func(requested string, hasTitle bool, expected string) {
				Expect(employee.InitialStatus(requested, hasTitle)).To(Equal(expected))
			},
			Entry("defaults to active with a title", "", true, employee.StatusActive),
			Entry("defaults to open without a title", "", false, employee.StatusOpen),
			Entry("forces active to open without a title", employee.StatusActive, false, employee.StatusOpen),
			Entry("keeps inactive without a title", employee.StatusInactive, false, employee.StatusInactive),
			Entry("keeps open with a title", employee.StatusOpen, true, employee.StatusOpen),
		)

		DescribeTable("StatusAfterTitleChange",
			func(current string, hasTitle bool, expected string) {
				Expect(employee.StatusAfterTitleChange(current, hasTitle)).To(Equal(expected))
			},
			Entry("attaching a title to an open employee activates", employee.StatusOpen, true, employee.StatusActive),
			Entry("removing the title from an active employee opens", employee.StatusActive, false, employee.StatusOpen),
			Entry("inactive stays inactive without a title", employee.StatusInactive, false, employee.StatusInactive),
			Entry("inactive stays inactive with a title", employee.StatusInactive, true, employee.StatusInactive),
			Entry("active stays active with a title", employee.StatusActive, true, employee.StatusActive),
		)
	})

	Describe("validity", func() {
		withExpiry := func(s string) *employee.Employee {
			e := &employee.Employee{FirstName: "Ada", LastName: "Lovelace"}
			if s != "" {
				e.ValidUntil = date(s)
			}
			return e
		}

		It("counts calendar days regardless of the clock time", func() {
			days, ok := withExpiry("2026-03-11").DaysUntilExpiry(today)
			Expect(ok).To(BeTrue())
			Expect(days).To(Equal(1))
		})

		It("reports no expiry when valid_until is missing", func() {
			_, ok := withExpiry("").DaysUntilExpiry(today)
			Expect(ok).To(BeFalse())
		})

		DescribeTable("MatchesValidity",
			func(until string, v employee.Validity, expected bool) {
				Expect(withExpiry(until).MatchesValidity(v, today)).To(Equal(expected))
			},
			Entry("expired yesterday", "2026-03-09", employee.ValidityExpired, true),
			Entry("expires today is not expired", "2026-03-10", employee.ValidityExpired, false),
			Entry("expires today is expiring30", "2026-03-10", employee.ValidityExpiring30, true),
			Entry("30 days out is expiring30", "2026-04-09", employee.ValidityExpiring30, true),
			Entry("31 days out is not expiring30", "2026-04-10", employee.ValidityExpiring30, false),
			Entry("31 days out is expiring90", "2026-04-10", employee.ValidityExpiring90, true),
			Entry("expired is not expiring90", "2026-01-01", employee.ValidityExpiring90, false),
			Entry("no expiry matches none", "", employee.ValidityNone, true),
			Entry("an expiry does not match none", "2027-01-01", employee.ValidityNone, false),
			Entry("unknown filter matches everything", "2027-01-01", employee.Validity("other"), true),
		)
	})

	Describe("Filter", func() {
		var people []*employee.Employee

		BeforeEach(func() {
			people = []*employee.Employee{
				{ID: "1", FirstName: "Jürgen", LastName: "Müller", EmployeeNumber: strPtr("P-100"), ValidUntil: date("2026-03-01")},
				{ID: "2", FirstName: "Anna", LastName: "Schmidt", EmployeeNumber: strPtr("P-200"), ValidUntil: date("2026-03-20")},
				{ID: "3", FirstName: "Mehmet", LastName: "Yılmaz"},
			}
		})

		ids := func(es []*employee.Employee) []string {
			out := make([]string, 0, len(es))
			for _, e := range es {
				out = append(out, e.ID)
			}
			return out
		}

		It("returns everyone for an empty filter", func() {
			Expect(ids(employee.Filter(people, employee.ListFilter{}, today))).To(Equal([]string{"1", "2", "3"}))
		})

		It("matches names case-insensitively and ignoring diacritics", func() {
			Expect(ids(employee.Filter(people, employee.ListFilter{Query: "juergen"}, today))).To(BeEmpty())
			Expect(ids(employee.Filter(people, employee.ListFilter{Query: "jurgen"}, today))).To(Equal([]string{"1"}))
			Expect(ids(employee.Filter(people, employee.ListFilter{Query: "SCHMIDT"}, today))).To(Equal([]string{"2"}))
		})

		It("matches fuzzy subsequences across first name, last name and number", func() {
			Expect(ids(employee.Filter(people, employee.ListFilter{Query: "an sch"}, today))).To(Equal([]string{"2"}))
			Expect(ids(employee.Filter(people, employee.ListFilter{Query: "P-100"}, today))).To(Equal([]string{"1"}))
		})

		It("combines query and validity", func() {
			filter := employee.ListFilter{Query: "m", Validity: employee.ValidityExpired}
			Expect(ids(employee.Filter(people, filter, today))).To(Equal([]string{"1"}))
			Expect(ids(employee.Filter(people, employee.ListFilter{Validity: employee.ValidityNone}, today))).To(Equal([]string{"3"}))
		})
	})

	Describe("Date", func() {
		It("marshals as a calendar date", func() {
			b, err := json.Marshal(struct {
				D employee.Date `json:"d"`
			}{D: *date("1990-05-01")})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(`{"d":"1990-05-01"}`))
		})

		It("rejects malformed input", func() {
			var d employee.Date
			Expect(json.Unmarshal([]byte(`"01.05.1990"`), &d)).NotTo(Succeed())
		})
	})

	It("builds safe document paths", func() {
		Expect(employee.SafeName("Pass (Kopie) ä.pdf")).To(Equal("Pass__Kopie___.pdf"))
		Expect(employee.DocumentPath("e1", 1700000000000, "a b.pdf")).To(Equal("employees/e1/1700000000000-a_b.pdf"))
	})
})
