package api

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/instr"
)

var _ = Describe("Dispatchers", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NopDispatcher", func() {
		It("should miss every template by default", func() {
			_, found, err := NopDispatcher{}.MatchTemplate(ctx, "a.png", 80)

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})

		It("should report the configured match", func() {
			d := NopDispatcher{Match: &instr.Position{X: 3, Y: 4}}

			pos, found, err := d.MatchTemplate(ctx, "a.png", 80)

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(pos).To(Equal(instr.Position{X: 3, Y: 4}))
		})

		It("should not wait on sleep", func() {
			start := time.Now()

			Expect(NopDispatcher{}.Sleep(ctx, 10000)).To(Succeed())
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})
	})

	Describe("Recorder", func() {
		var r *Recorder

		BeforeEach(func() {
			r = &Recorder{}
		})

		It("should record calls in order", func() {
			Expect(r.MoveMouse(ctx, 1, 2)).To(Succeed())
			Expect(r.MouseButton(ctx, instr.ButtonLeft, ButtonClick)).To(Succeed())
			Expect(r.KeyAction(ctx, "enter", KeyPress)).To(Succeed())
			Expect(r.TypeText(ctx, "hi")).To(Succeed())
			Expect(r.Sleep(ctx, 5)).To(Succeed())

			Expect(r.Methods()).To(Equal([]string{
				"MoveMouse", "MouseButton", "KeyAction", "TypeText", "Sleep",
			}))
			Expect(r.Calls[0].String()).To(Equal("MoveMouse(1, 2)"))
			Expect(r.Calls[1].String()).To(Equal("MouseButton(left, click)"))
		})

		It("should answer template matches from the script", func() {
			r.Matches = []MatchResult{{Pos: instr.Position{X: 9, Y: 9}, Found: true}}

			pos, found, _ := r.MatchTemplate(ctx, "a.png", 50)
			Expect(found).To(BeTrue())
			Expect(pos).To(Equal(instr.Position{X: 9, Y: 9}))

			_, found, _ = r.MatchTemplate(ctx, "a.png", 50)
			Expect(found).To(BeFalse())
		})

		It("should cancel after the configured number of calls", func() {
			r.CancelAfter = 2

			Expect(r.IsCancelled()).To(BeFalse())
			_ = r.TypeText(ctx, "a")
			_ = r.TypeText(ctx, "b")
			Expect(r.IsCancelled()).To(BeTrue())
		})

		It("should fail the configured method", func() {
			boom := errors.New("boom")
			r.Fail = map[string]error{"TypeText": boom}

			Expect(r.TypeText(ctx, "a")).To(MatchError(boom))
			Expect(r.MoveMouse(ctx, 0, 0)).To(Succeed())
		})
	})

	Describe("Paced", func() {
		var (
			r      *Recorder
			p      *Paced
			pauses []int64
		)

		BeforeEach(func() {
			r = &Recorder{}
			pauses = nil
			p = NewPaced(r, 100)
			p.sleep = func(_ context.Context, ms int64) error {
				pauses = append(pauses, ms)
				return nil
			}
		})

		It("should pause after input actions only", func() {
			Expect(p.MoveMouse(ctx, 1, 1)).To(Succeed())
			Expect(p.KeyAction(ctx, "a", KeyDown)).To(Succeed())
			Expect(p.Sleep(ctx, 20)).To(Succeed())
			_, _, err := p.MatchTemplate(ctx, "x.png", 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(pauses).To(Equal([]int64{100, 100}))
			Expect(r.Methods()).To(Equal([]string{"MoveMouse", "KeyAction", "Sleep", "MatchTemplate"}))
		})

		It("should not pause after a failed action", func() {
			r.Fail = map[string]error{"TypeText": errors.New("no display")}

			Expect(p.TypeText(ctx, "x")).To(HaveOccurred())
			Expect(pauses).To(BeEmpty())
		})
	})

	Describe("SleepContext", func() {
		It("should stop early when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Expect(SleepContext(cctx, 60000)).To(MatchError(context.Canceled))
		})
	})
})
