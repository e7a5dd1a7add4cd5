package vars_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/vars"
)

var _ = Describe("Store", func() {
	var s *vars.Store

	BeforeEach(func() {
		s = vars.NewStore()
	})

	It("should start with a successful status", func() {
		Expect(s.Status()).To(Equal(vars.StatusOK))
		Expect(s.Get("$")).To(Equal(instr.Integer(0)))
	})

	It("should fail to read an undefined variable", func() {
		_, err := s.Get("$x")

		var undef *instr.UndefinedVariable
		Expect(err).To(BeAssignableToTypeOf(undef))
		Expect(err.(*instr.UndefinedVariable).Name).To(Equal("$x"))
	})

	It("should overwrite on set", func() {
		s.Set("$x", instr.Integer(5))
		s.Set("$x", instr.Position{X: 1, Y: 2})

		Expect(s.Get("$x")).To(Equal(instr.Position{X: 1, Y: 2}))
	})

	It("should increase an integer", func() {
		s.Set("$x", instr.Integer(5))

		Expect(s.Increase("$x", 3)).To(Succeed())
		Expect(s.Get("$x")).To(Equal(instr.Integer(8)))

		Expect(s.Increase("$x", -10)).To(Succeed())
		Expect(s.Get("$x")).To(Equal(instr.Integer(-2)))
	})

	It("should refuse to increase a position", func() {
		s.Set("$p", instr.Position{X: 10, Y: 20})

		err := s.Increase("$p", 1)

		Expect(err).To(MatchError(&instr.TypeMismatch{
			Name:     "$p",
			Expected: instr.KindInteger,
			Actual:   instr.KindPosition,
		}))
		Expect(s.Get("$p")).To(Equal(instr.Position{X: 10, Y: 20}))
	})

	It("should refuse to increase an undefined variable", func() {
		err := s.Increase("$nope", 1)

		Expect(err).To(MatchError(&instr.UndefinedVariable{Name: "$nope"}))
	})

	It("should expose the status variable", func() {
		s.SetStatus(vars.StatusFailed)

		Expect(s.Status()).To(Equal(vars.StatusFailed))
		Expect(s.Get("$")).To(Equal(instr.Integer(1)))
	})

	It("should list names sorted and snapshot by copy", func() {
		s.Set("$b", instr.Integer(2))
		s.Set("$a", instr.Integer(1))

		Expect(s.Names()).To(Equal([]string{"$", "$a", "$b"}))

		snap := s.Snapshot()
		s.Set("$a", instr.Integer(100))
		Expect(snap["$a"]).To(Equal(instr.Integer(1)))
	})
})
