package timeline_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/timeline"
)

func parse(src string) *program.Program {
	p, err := program.ParseString(src)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Clock", func() {
	It("should charge the pause after successful actions only", func() {
		rec := &api.Recorder{Fail: map[string]error{"TypeText": errors.New("boom")}}
		clock := timeline.NewClock(rec, 100)
		ctx := context.Background()

		Expect(clock.MoveMouse(ctx, 1, 1)).To(Succeed())
		Expect(clock.KeyAction(ctx, "a", api.KeyPress)).To(Succeed())
		Expect(clock.TypeText(ctx, "x")).NotTo(Succeed())
		Expect(clock.Sleep(ctx, 40)).To(Succeed())

		Expect(clock.Take()).To(BeEquivalentTo(240))
		Expect(clock.Take()).To(BeZero())
		Expect(clock.TotalMS()).To(BeEquivalentTo(240))
		Expect(rec.Methods()).To(Equal([]string{"MoveMouse", "KeyAction", "TypeText"}))
	})

	It("should not record a sleep after cancellation", func() {
		clock := timeline.NewClock(api.NopDispatcher{}, 0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(clock.Sleep(ctx, 10)).To(MatchError(context.Canceled))
		Expect(clock.TotalMS()).To(BeZero())
	})
})

var _ = Describe("Runner", func() {
	It("should account for sleeps and pauses in virtual time", func() {
		r := timeline.NewBuilder().
			WithPause(100).
			Build("Runner", parse("mouse move 1,1\nsleep 500\nmouse left click\n"))

		d, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Finished()).To(BeTrue())
		Expect(r.Steps()).To(Equal(3))
		Expect(r.SleptMS()).To(BeEquivalentTo(700))
		Expect(d).To(BeNumerically(">=", 700*time.Millisecond))
		Expect(d).To(BeNumerically("<", 720*time.Millisecond))
	})

	It("should run loops to completion", func() {
		r := timeline.NewBuilder().Build("Runner", parse(`
var set $i 0
checkpoint "top"
sleep 10
var increase $i 1
if ($i < 5)
goto "top"
`))

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.SleptMS()).To(BeEquivalentTo(50))

		v, _ := r.Macro().Vars().Get("$i")
		Expect(v).To(Equal(instr.Integer(5)))
	})

	It("should answer template matches from the simulator", func() {
		hit := instr.Position{X: 9, Y: 9}
		r := timeline.NewBuilder().
			WithSimulator(api.NopDispatcher{Match: &hit}).
			Build("Runner", parse("cv match a.png 90% $p\n"))

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		v, _ := r.Macro().Vars().Get("$p")
		Expect(v).To(Equal(hit))
	})

	It("should stop an endless macro at the step limit", func() {
		r := timeline.NewBuilder().
			WithMaxSteps(50).
			Build("Runner", parse("checkpoint \"a\"\ngoto \"a\"\n"))

		_, err := r.Run(context.Background())
		Expect(err).To(MatchError(timeline.ErrStepLimit))
		Expect(r.Finished()).To(BeFalse())
		Expect(r.Steps()).To(Equal(50))
	})

	It("should report runtime errors", func() {
		r := timeline.NewBuilder().Build("Runner", parse("var increase $x 1\n"))

		_, err := r.Run(context.Background())
		Expect(instr.KindOf(err)).To(Equal("UndefinedVariable"))
	})

	It("should stop when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := timeline.NewBuilder().Build("Runner", parse("sleep 10\n"))

		_, err := r.Run(ctx)
		Expect(err).To(MatchError(instr.ErrCancelled))
	})
})
