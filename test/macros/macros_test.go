package macros_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/core"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/timeline"
	"github.com/sarchlab/gomacro/verify"
)

func load(path string) *program.Program {
	prog, err := program.LoadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return prog
}

func runNormal(path string, rec *api.Recorder) *core.Engine {
	e := core.NewBuilder().WithDispatcher(rec).Build(load(path))
	Expect(e.Run(context.Background())).To(Succeed())
	return e
}

var _ = Describe("Macros", func() {
	DescribeTable("lint cleanly",
		func(path string) {
			Expect(verify.RunLint(load(path))).To(BeEmpty())
		},
		Entry("loop", "./loop.macro"),
		Entry("wait for button", "./wait_for_button.macro"),
		Entry("form", "./form.macro"),
		Entry("drag", "./drag.macro"),
	)

	It("should click three times in the loop", func() {
		rec := &api.Recorder{}
		e := runNormal("./loop.macro", rec)

		Expect(rec.Methods()).To(Equal([]string{"MouseButton", "MouseButton", "MouseButton"}))
		v, _ := e.Vars().Get("$c")
		Expect(v).To(Equal(instr.Integer(3)))
	})

	It("should poll until the button appears", func() {
		rec := &api.Recorder{
			Matches: []api.MatchResult{
				{Found: false},
				{Found: false},
				{Pos: instr.Position{X: 320, Y: 240}, Found: true},
			},
		}
		e := runNormal("./wait_for_button.macro", rec)

		Expect(rec.Methods()).To(Equal([]string{
			"MatchTemplate", "Sleep",
			"MatchTemplate", "Sleep",
			"MatchTemplate",
			"MoveMouse", "MouseButton",
		}))
		Expect(rec.Calls[5].Args).To(Equal([]interface{}{int32(320), int32(240)}))

		v, _ := e.Vars().Get("$attempts")
		Expect(v).To(Equal(instr.Integer(2)))
		Expect(e.Vars().Status()).To(BeZero())
	})

	It("should fill the form", func() {
		rec := &api.Recorder{}
		runNormal("./form.macro", rec)

		var calls []string
		for _, c := range rec.Calls {
			calls = append(calls, c.String())
		}

		Expect(calls).To(Equal([]string{
			"MoveMouse(100, 200)",
			"MouseButton(left, click)",
			"KeyAction(ctrl, down)",
			"KeyAction(a, press)",
			"KeyAction(ctrl, up)",
			`TypeText(Jane "JD" Doe # not a comment)`,
			"KeyAction(tab, press)",
			"TypeText(42)",
			"KeyAction(enter, press)",
		}))
	})

	It("should drag between stored positions", func() {
		rec := &api.Recorder{}
		runNormal("./drag.macro", rec)

		Expect(rec.Calls[0].Args).To(Equal([]interface{}{int32(10), int32(10)}))
		Expect(rec.Calls[2].Args).To(Equal([]interface{}{int32(300), int32(400)}))
		Expect(rec.Methods()).To(Equal([]string{
			"MoveMouse", "MouseButton", "MoveMouse", "MouseButton", "MouseButton",
		}))
	})

	It("should end with the same variables in simulate mode", func() {
		hit := instr.Position{X: 320, Y: 240}

		rec := &api.Recorder{Matches: []api.MatchResult{{Pos: hit, Found: true}}}
		normal := runNormal("./wait_for_button.macro", rec)

		simulated := core.NewBuilder().
			WithMode(core.ModeSimulate).
			WithSimulator(api.NopDispatcher{Match: &hit}).
			Build(load("./wait_for_button.macro"))
		Expect(simulated.Run(context.Background())).To(Succeed())

		Expect(simulated.Vars().Snapshot()).To(Equal(normal.Vars().Snapshot()))
	})

	It("should parse every macro the same way twice", func() {
		for _, path := range []string{"./loop.macro", "./wait_for_button.macro", "./form.macro", "./drag.macro"} {
			Expect(load(path).Insts).To(Equal(load(path).Insts))
		}
	})

	It("should estimate the polling time on the timeline", func() {
		r := timeline.NewBuilder().
			WithSimulator(&api.Recorder{
				Matches: []api.MatchResult{
					{Found: false},
					{Found: false},
					{Found: false},
					{Pos: instr.Position{X: 1, Y: 1}, Found: true},
				},
			}).
			Build("Poll", load("./wait_for_button.macro"))

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.SleptMS()).To(BeEquivalentTo(750))
	})
})
