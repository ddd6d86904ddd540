package stability_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/stability"
)

var _ = Describe("Routh array", func() {
	Context("for a triple pole at -1", func() {
		den := []float64{1, 3, 3, 1}

		It("is stable with no sign changes", func() {
			tab := stability.Routh(den)
			Expect(tab.Rows).To(HaveLen(4))
			Expect(tab.SignChanges()).To(BeZero())
			Expect(tab.Stable()).To(BeTrue())
			Expect(tab.Verdict()).To(Equal("stable"))
		})

		It("has all Hurwitz minors positive", func() {
			minors := stability.PrincipalMinors(stability.HurwitzMatrix(den))
			Expect(minors).To(HaveLen(3))
			for _, d := range minors {
				Expect(d).To(BeNumerically(">", 0))
			}
			Expect(stability.HurwitzStable(den)).To(BeTrue())
		})
	})

	Context("for s² - s + 2", func() {
		den := []float64{1, -1, 2}

		It("is unstable with sign changes", func() {
			tab := stability.Routh(den)
			Expect(tab.SignChanges()).To(BeNumerically(">=", 1))
			Expect(tab.Stable()).To(BeFalse())
			Expect(tab.Verdict()).To(HavePrefix("unstable"))
			Expect(stability.RootsStable(den)).To(BeFalse())
		})

		It("agrees with the Hurwitz criterion", func() {
			Expect(stability.HurwitzStable(den)).To(BeFalse())
		})
	})

	DescribeTable("agrees with the root locations",
		func(den []float64) {
			Expect(stability.Routh(den).Stable()).To(Equal(stability.RootsStable(den)))
		},
		Entry("first order", []float64{1, 2}),
		Entry("cubic, stable", []float64{1, 6, 11, 6}),
		Entry("cubic, unstable at K=10", []float64{1, 3, 3, 11}),
		Entry("quartic, unstable", []float64{1, 2, 3, 4, 5}),
		Entry("quintic, stable", []float64{1, 5, 10, 10, 5, 1}),
	)
})

var _ = Describe("Summarize", func() {
	It("decides first-order plants by τ", func() {
		Expect(stability.Summarize(plant.FirstOrder{K: 1, Tau: 2}).Stable).To(BeTrue())
		s := stability.Summarize(plant.FirstOrder{K: 1, Tau: -1})
		Expect(s.Stable).To(BeFalse())
		Expect(s.BIBO).To(BeFalse())
		Expect(s.Poles).To(Equal([]complex128{1}))
	})

	It("labels second-order poles by damping regime", func() {
		s := stability.Summarize(plant.SecondOrder{K: 1, Wn: 2, Zeta: 0.5})
		Expect(s.Stable).To(BeTrue())
		Expect(s.PoleText).To(Equal([]string{"-1.000 ± j1.732"}))

		s = stability.Summarize(plant.SecondOrder{K: 1, Wn: 3, Zeta: 1})
		Expect(s.PoleText).To(Equal([]string{"-3.000 (repeated)"}))

		s = stability.Summarize(plant.SecondOrder{K: 1, Wn: 1, Zeta: 0})
		Expect(s.Stable).To(BeFalse())
	})

	It("uses the Routh array for higher-order plants", func() {
		s := stability.Summarize(plant.HigherOrder{K: 10, Num: []float64{1}, Den: []float64{1, 3, 3, 1}})
		Expect(s.Method).To(Equal(stability.MethodRouth))
		Expect(s.Stable).To(BeTrue())
		Expect(s.Verdict()).To(Equal("stable (Routh-Hurwitz)"))
		Expect(s.Routh).NotTo(BeNil())
		Expect(s.Minors).To(Equal([]float64{3, 8, 8}))
		Expect(s.Poles).To(HaveLen(3))
	})
})
