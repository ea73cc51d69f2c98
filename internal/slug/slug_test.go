package slug_test

import (
	"testing"

	"github.com/bossrus/workflow-go/internal/slug"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSlug(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Slug Suite")
}

var _ = Describe("Make", func() {
	It("should lowercase and hyphenate spaces", func() {
		Expect(slug.Make("Hot Foil Stamping")).To(Equal("hot-foil-stamping"))
	})

	It("should drop punctuation", func() {
		Expect(slug.Make("Acme, Inc. (print)")).To(Equal("acme-inc-print"))
	})

	It("should keep digits, underscores and hyphens", func() {
		Expect(slug.Make("dept_2 line-3")).To(Equal("dept_2-line-3"))
	})

	It("should keep cyrillic letters", func() {
		Expect(slug.Make("Цех Печати")).To(Equal("цех-печати"))
	})

	It("should return empty for symbols only", func() {
		Expect(slug.Make("!!!")).To(Equal(""))
	})
})
