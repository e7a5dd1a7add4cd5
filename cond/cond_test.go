package cond_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/cond"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/vars"
)

var _ = Describe("Condition", func() {
	Context("when parsing", func() {
		It("should parse a spaced comparison", func() {
			c, err := cond.Parse("($c < 3)")

			Expect(err).NotTo(HaveOccurred())
			Expect(c.LHS).To(Equal(instr.VarRef("$c")))
			Expect(c.Op).To(Equal(instr.OpLT))
			Expect(c.RHS).To(Equal(instr.Literal(instr.Integer(3))))
			Expect(c.Text).To(Equal("($c < 3)"))
		})

		It("should parse without spaces and with two-character operators", func() {
			c, err := cond.Parse("($count<=-4)")

			Expect(err).NotTo(HaveOccurred())
			Expect(c.LHS).To(Equal(instr.VarRef("$count")))
			Expect(c.Op).To(Equal(instr.OpLE))
			Expect(c.RHS).To(Equal(instr.Literal(instr.Integer(-4))))
		})

		It("should accept the status variable", func() {
			c, err := cond.Parse("( $ == 0 )")

			Expect(err).NotTo(HaveOccurred())
			Expect(c.LHS).To(Equal(instr.VarRef("$")))
			Expect(c.Op).To(Equal(instr.OpEQ))
		})

		DescribeTable("should reject malformed conditions",
			func(text string) {
				_, err := cond.Parse(text)

				var bad *instr.InvalidCondition
				Expect(err).To(BeAssignableToTypeOf(bad))
				Expect(err.(*instr.InvalidCondition).Text).To(Equal(text))
			},
			Entry("no parentheses", "$c < 3"),
			Entry("empty", "()"),
			Entry("missing operator", "($c 3)"),
			Entry("missing rhs", "($c <)"),
			Entry("boolean connective", "($a < 1 and $b > 2)"),
			Entry("or keyword", "($a < 1 or 1)"),
			Entry("function call", "(len($a) > 1)"),
			Entry("single equals", "($a = 1)"),
			Entry("arithmetic", "($a + 1 < 3)"),
			Entry("word operand", "(foo < 3)"),
			Entry("python builtin", "(__import__ == 1)"),
		)
	})

	Context("when evaluating", func() {
		var store *vars.Store

		BeforeEach(func() {
			store = vars.NewStore()
			store.Set("$a", instr.Integer(2))
			store.Set("$b", instr.Integer(5))
			store.Set("$p", instr.Position{X: 1, Y: 1})
		})

		DescribeTable("should compare integers",
			func(text string, expected bool) {
				c, err := cond.Parse(text)
				Expect(err).NotTo(HaveOccurred())

				Expect(cond.Eval(c, store)).To(Equal(expected))
			},
			Entry("lt", "($a < $b)", true),
			Entry("gt", "($a > $b)", false),
			Entry("le equal", "($a <= 2)", true),
			Entry("ge", "($b >= 6)", false),
			Entry("eq", "(5 == $b)", true),
			Entry("ne", "($a != 2)", false),
			Entry("status", "($ == 0)", true),
		)

		It("should fail on an undefined variable", func() {
			c, _ := cond.Parse("($missing < 3)")

			_, err := cond.Eval(c, store)

			Expect(err).To(MatchError(&instr.UndefinedVariable{Name: "$missing"}))
		})

		It("should fail on a position operand", func() {
			c, _ := cond.Parse("($p == 1)")

			_, err := cond.Eval(c, store)

			Expect(err).To(MatchError(&instr.TypeMismatch{
				Name:     "$p",
				Expected: instr.KindInteger,
				Actual:   instr.KindPosition,
			}))
		})
	})
})
