package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/config"
)

var _ = Describe("gomacro", func() {
	var (
		stdout, stderr *bytes.Buffer
		rec            *api.Recorder
		a              *app
		dir            string
	)

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	run := func(args ...string) int {
		return execute(a, args)
	}

	BeforeEach(func() {
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		rec = &api.Recorder{}
		dir = GinkgoT().TempDir()

		a = newApp(stdout, stderr)
		a.newDispatcher = func(config.Config) api.Dispatcher { return rec }
	})

	It("should print the version", func() {
		Expect(run("version")).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("gomacro v" + Version))
	})

	DescribeTable("usage errors",
		func(args ...string) {
			Expect(run(args...)).To(Equal(ExitUsage))
			Expect(stderr.String()).NotTo(BeEmpty())
		},
		Entry("missing file argument", "run"),
		Entry("too many arguments", "run", "a", "b"),
		Entry("unknown flag", "run", "--fast", "a.macro"),
		Entry("unknown command", "jump"),
		Entry("missing macro file", "run", "does-not-exist.macro"),
	)

	It("should run a macro through the dispatcher", func() {
		path := writeFile("click.macro", `
var set $p (5,6)
mouse move $p
mouse left click
key type "hi"
`)

		Expect(run("run", "--pause", "0s", path)).To(Equal(ExitOK))
		Expect(rec.Methods()).To(Equal([]string{"MoveMouse", "MouseButton", "TypeText"}))
		Expect(stdout.String()).To(ContainSubstring("Starting macro execution"))
		Expect(stdout.String()).To(ContainSubstring("top-left corner"))
		Expect(stdout.String()).To(ContainSubstring("Macro execution completed"))
	})

	It("should pause after actions by default", func() {
		path := writeFile("one.macro", "key press a\n")

		Expect(run("run", "--pause", "1ms", path)).To(Equal(ExitOK))
		Expect(rec.Methods()).To(Equal([]string{"KeyAction"}))
	})

	It("should omit the failsafe hint when disabled", func() {
		path := writeFile("one.macro", "sleep 1\n")

		Expect(run("run", "--no-failsafe", path)).To(Equal(ExitOK))
		Expect(stdout.String()).NotTo(ContainSubstring("top-left corner"))
	})

	It("should print the program and variables when verbose", func() {
		path := writeFile("vars.macro", "var set $count 41\nvar increase $count 1\n")

		Expect(run("run", "-v", path)).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("var increase $count 1"))
		Expect(stdout.String()).To(ContainSubstring("42"))
	})

	It("should report parse errors with exit code 1", func() {
		path := writeFile("bad.macro", "sleep 1\nsleep forever\n")

		Expect(run("run", path)).To(Equal(ExitFailure))
		Expect(stderr.String()).To(ContainSubstring("ParseError"))
		Expect(stderr.String()).To(ContainSubstring("line 2"))
		Expect(rec.Calls).To(BeEmpty())
	})

	It("should report runtime errors with the line", func() {
		path := writeFile("jump.macro", "key press a\ngoto \"nowhere\"\n")

		Expect(run("run", "--pause", "0s", path)).To(Equal(ExitFailure))
		Expect(stderr.String()).To(ContainSubstring("UndefinedCheckpoint at line 2"))
	})

	It("should exit with 130 when cancelled", func() {
		rec.CancelAfter = 1
		path := writeFile("two.macro", "key press a\nkey press b\n")

		Expect(run("run", "--pause", "0s", path)).To(Equal(ExitCancelled))
		Expect(stderr.String()).To(ContainSubstring("cancelled"))
		Expect(rec.Calls).To(HaveLen(1))
	})

	It("should list instructions without executing them in dry-run mode", func() {
		path := writeFile("dry.macro", "mouse move 1,1\nmouse left click\n")

		Expect(run("run", "--dry-run", path)).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("mouse move 1,1"))
		Expect(stdout.String()).To(ContainSubstring("Dry run: 2 instructions"))
		Expect(rec.Calls).To(BeEmpty())
	})

	It("should run the logic without actions in simulate mode", func() {
		path := writeFile("sim.macro", `
cv match ok.png 90% $btn
if ($ == 0)
mouse move $btn
`)

		Expect(run("run", "--simulate", path)).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("Simulation mode"))
		Expect(rec.Calls).To(BeEmpty())
	})

	It("should estimate the duration on virtual time", func() {
		path := writeFile("slow.macro", "sleep 1500\nkey press a\n")

		Expect(run("run", "--simulate", "--virtual-time", "--pause", "100ms", path)).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("Estimated duration: 1.6"))
		Expect(rec.Calls).To(BeEmpty())
	})

	It("should reject conflicting modes", func() {
		path := writeFile("x.macro", "sleep 1\n")

		Expect(run("run", "--dry-run", "--simulate", path)).To(Equal(ExitUsage))
		Expect(run("run", "--virtual-time", path)).To(Equal(ExitUsage))
	})

	It("should read the configuration file", func() {
		cfg := writeFile("gomacro.yaml", "mode: simulate\nsimulate:\n  match: false\n")
		path := writeFile("wait.macro", "cv match ok.png 90% $btn\nif ($ == 1)\nkey type \"missing\"\n")

		Expect(run("run", "--config", cfg, path)).To(Equal(ExitOK))
		Expect(stdout.String()).To(ContainSubstring("Simulation mode"))
		Expect(rec.Calls).To(BeEmpty())
	})

	It("should reject an invalid configuration", func() {
		cfg := writeFile("gomacro.toml", "log_format = \"xml\"\n")
		path := writeFile("x.macro", "sleep 1\n")

		Expect(run("run", "--config", cfg, path)).To(Equal(ExitUsage))
		Expect(stderr.String()).To(ContainSubstring("xml"))
	})

	It("should write JSON logs to a file", func() {
		logPath := filepath.Join(dir, "run.log")
		path := writeFile("x.macro", "sleep 1\n")

		Expect(run("run", "--log-format", "json", "--log-file", logPath, path)).To(Equal(ExitOK))

		content, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring(`"msg":"MacroLoaded"`))
		Expect(string(content)).To(ContainSubstring(`"run":"` + a.runID + `"`))
	})

	Describe("lint", func() {
		It("should pass a clean macro", func() {
			path := writeFile("ok.macro", "var set $i 0\ncheckpoint \"l\"\nvar increase $i 1\nif ($i < 3)\ngoto \"l\"\n")

			Expect(run("lint", path)).To(Equal(ExitOK))
			Expect(stdout.String()).To(ContainSubstring("MACRO PASSED ALL CHECKS"))
		})

		It("should fail a macro with errors", func() {
			path := writeFile("bad.macro", "mouse move $target\n")

			Expect(run("lint", path)).To(Equal(ExitFailure))
			Expect(stdout.String()).To(ContainSubstring("never assigned"))
		})

		It("should bound the simulation", func() {
			path := writeFile("loop.macro", "checkpoint \"l\"\nsleep 1\ngoto \"l\"\n")

			Expect(run("lint", "--steps", "20", path)).To(Equal(ExitFailure))
			Expect(stdout.String()).To(ContainSubstring("within 20 steps"))
		})
	})
})
