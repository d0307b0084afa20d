package notification_test

import (
	"github.com/stayfix/stayfix/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SaveRuleInput", func() {
	valid := func() notification.SaveRuleInput {
		return notification.SaveRuleInput{
			Name: "  Standard ",
			Phases: []notification.PhaseInput{
				{TimingType: notification.TimingBefore, Days: days(30), NotifyEmployee: true, OrgUnitIDs: []string{"a", " ", "b"}},
				{TimingType: notification.TimingOn, NotifySupervisor: true, OrgUnitIDs: []string{"b"}},
			},
		}
	}

	It("normalizes name, defaults and offsets", func() {
		n, err := valid().Normalize()
		Expect(err).NotTo(HaveOccurred())
		Expect(n.Name).To(Equal("Standard"))
		Expect(n.IsActive).To(BeTrue())
		Expect(n.ID).To(BeEmpty())
		Expect(n.Phases).To(HaveLen(2))
		Expect(n.Phases[0].OffsetDays).To(Equal(30))
		Expect(n.Phases[0].OrgUnitIDs).To(Equal([]string{"a", "b"}))
		Expect(n.Phases[1].OffsetDays).To(Equal(0))
		Expect(n.OrgUnitIDs()).To(Equal([]string{"a", "b"}))
	})

	It("keeps an explicit inactive flag and blank descriptions become nil", func() {
		in := valid()
		inactive := false
		blank := "  "
		in.IsActive = &inactive
		in.Description = &blank

		n, err := in.Normalize()
		Expect(err).NotTo(HaveOccurred())
		Expect(n.IsActive).To(BeFalse())
		Expect(n.Description).To(BeNil())
	})

	It("requires a name", func() {
		in := valid()
		in.Name = " "
		_, err := in.Normalize()
		Expect(err).To(MatchError(notification.ErrNameRequired))
	})

	It("requires at least one phase", func() {
		in := valid()
		in.Phases = nil
		_, err := in.Normalize()
		Expect(err).To(MatchError(notification.ErrPhasesRequired))
	})

	It("fails on the first invalid phase", func() {
		in := valid()
		in.Phases = append(in.Phases, notification.PhaseInput{TimingType: notification.TimingAfter, Days: days(0)})
		_, err := in.Normalize()
		Expect(err).To(MatchError(notification.ErrPositiveDays))
	})

	It("builds phase and recipient rows with positional sort indices", func() {
		n, err := valid().Normalize()
		Expect(err).NotTo(HaveOccurred())

		records := n.Records("u1", "r1")
		Expect(records).To(HaveLen(2))
		Expect(records[0].Phase.RuleID).To(Equal("r1"))
		Expect(records[0].Phase.UserID).To(Equal("u1"))
		Expect(records[0].Phase.NotifyEmployee).To(BeTrue())
		Expect(records[0].Recipients).To(HaveLen(2))
		Expect(records[0].Recipients[1].OrgUnitID).To(Equal("b"))
		Expect(records[0].Recipients[1].SortIndex).To(Equal(1))
		Expect(records[1].Phase.NotifySupervisor).To(BeTrue())
	})
})
