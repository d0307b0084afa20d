package internal_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stayfix/stayfix/internal"
)

var _ = Describe("Context helpers", func() {
	It("round-trips the user id", func() {
		ctx := internal.ContextWithUserID(context.Background(), "user-1")
		Expect(internal.UserIDFromContext(ctx)).To(Equal("user-1"))

		id, err := internal.RequireUserID(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("user-1"))
	})

	It("requires an authenticated user", func() {
		_, err := internal.RequireUserID(context.Background())
		Expect(err).To(MatchError(internal.ErrUnauthenticated))
	})

	It("applies a default timeout", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		_, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
	})
})
