package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/gomacro/cond"
	"github.com/sarchlab/gomacro/instr"
)

var varNameRe = regexp.MustCompile(`^\$\w+$`)

func fail(reason string, err error) error {
	return &instr.ParseError{Reason: reason, Err: err}
}

func failf(format string, args ...interface{}) error {
	return fail(fmt.Sprintf(format, args...), nil)
}

func expectTokens(l *line, n int) error {
	if len(l.toks) < n {
		return failf("too few arguments for %s", l.toks[0].text)
	}
	if len(l.toks) > n {
		return failf("unexpected %q after %s", l.rest(n), l.toks[0].text)
	}
	return nil
}

func parseInt(s string, bits int, what string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, fail("bad "+what, &instr.InvalidLiteral{Text: s, Expected: "integer"})
	}
	return n, nil
}

// parsePosition accepts `x,y` and `(x,y)`, with optional spaces.
func parsePosition(s string) (instr.Position, error) {
	body := strings.Join(strings.Fields(s), "")

	if strings.HasPrefix(body, "(") || strings.HasSuffix(body, ")") {
		if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
			return instr.Position{}, fail("bad coordinates",
				&instr.InvalidLiteral{Text: s, Expected: "coordinate"})
		}
		body = body[1 : len(body)-1]
	}

	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return instr.Position{}, fail("bad coordinates",
			&instr.InvalidLiteral{Text: s, Expected: "coordinate"})
	}

	x, err := parseInt(parts[0], 32, "x coordinate")
	if err != nil {
		return instr.Position{}, err
	}
	y, err := parseInt(parts[1], 32, "y coordinate")
	if err != nil {
		return instr.Position{}, err
	}

	return instr.Position{X: int32(x), Y: int32(y)}, nil
}

// targetVar validates a variable that is written to.
func targetVar(l *line, i int) (string, error) {
	name, ok := l.word(i)
	if !ok {
		return "", failf("missing variable name")
	}
	if name == instr.StatusVar {
		return "", failf("the status variable $ cannot be assigned")
	}
	return checkVarName(name)
}

func checkVarName(name string) (string, error) {
	if !varNameRe.MatchString(name) {
		return "", failf("invalid variable name %q", name)
	}
	return name, nil
}

func parseButton(s string) (instr.Button, bool) {
	switch s {
	case "left":
		return instr.ButtonLeft, true
	case "right":
		return instr.ButtonRight, true
	default:
		return 0, false
	}
}

func parseVar(l *line) (instr.Op, error) {
	sub, _ := l.word(1)

	switch sub {
	case "set":
		name, err := targetVar(l, 2)
		if err != nil {
			return nil, err
		}

		valueText := l.rest(3)
		if valueText == "" {
			return nil, failf("missing value for %s", name)
		}

		if strings.ContainsAny(valueText, "(,") {
			pos, err := parsePosition(valueText)
			if err != nil {
				return nil, err
			}
			return instr.VarSet{Var: name, Value: pos}, nil
		}

		if err := expectTokens(l, 4); err != nil {
			return nil, err
		}
		n, err := parseInt(valueText, 64, "value")
		if err != nil {
			return nil, err
		}
		return instr.VarSet{Var: name, Value: instr.Integer(n)}, nil

	case "increase":
		name, err := targetVar(l, 2)
		if err != nil {
			return nil, err
		}
		if err := expectTokens(l, 4); err != nil {
			return nil, err
		}
		amount, err := parseInt(l.toks[3].text, 64, "amount")
		if err != nil {
			return nil, err
		}
		return instr.VarIncrease{Var: name, Amount: amount}, nil

	default:
		return nil, failf("unknown var command %q, expected set or increase", sub)
	}
}

func parseMouse(l *line) (instr.Op, error) {
	sub, _ := l.word(1)

	if sub == "move" {
		target := l.rest(2)
		if target == "" {
			return nil, failf("missing target for mouse move")
		}

		if strings.HasPrefix(target, "$") {
			if err := expectTokens(l, 3); err != nil {
				return nil, err
			}
			name, err := checkVarName(l.toks[2].text)
			if err != nil {
				return nil, err
			}
			return instr.MouseMove{Target: instr.VarRef(name)}, nil
		}

		pos, err := parsePosition(target)
		if err != nil {
			return nil, err
		}
		return instr.MouseMove{Target: instr.Literal(pos)}, nil
	}

	button, ok := parseButton(sub)
	if !ok {
		return nil, failf("unknown mouse command %q", sub)
	}

	if err := expectTokens(l, 3); err != nil {
		return nil, err
	}

	action, _ := l.word(2)
	switch action {
	case "click":
		return instr.MouseClick{Button: button}, nil
	case "down":
		return instr.MouseButtonDown{Button: button}, nil
	case "up":
		return instr.MouseButtonUp{Button: button}, nil
	default:
		return nil, failf("unknown mouse action %q, expected click, down or up", action)
	}
}

func parseKey(l *line) (instr.Op, error) {
	sub, _ := l.word(1)

	if err := expectTokens(l, 3); err != nil {
		return nil, err
	}
	arg := l.toks[2]

	switch sub {
	case "type":
		if !arg.quoted {
			return nil, failf("key type expects a quoted string")
		}
		return instr.KeyType{Text: arg.text}, nil
	case "down", "up", "press":
		if arg.quoted {
			return nil, failf("key %s expects a bare key name", sub)
		}
		switch sub {
		case "down":
			return instr.KeyDown{Key: arg.text}, nil
		case "up":
			return instr.KeyUp{Key: arg.text}, nil
		default:
			return instr.KeyPress{Key: arg.text}, nil
		}
	default:
		return nil, failf("unknown key command %q", sub)
	}
}

func quotedName(l *line) (string, error) {
	if err := expectTokens(l, 2); err != nil {
		return "", err
	}
	if !l.toks[1].quoted {
		return "", failf("%s expects a quoted name", l.toks[0].text)
	}
	if l.toks[1].text == "" {
		return "", failf("%s name must not be empty", l.toks[0].text)
	}
	return l.toks[1].text, nil
}

func parseCheckpoint(l *line) (instr.Op, error) {
	name, err := quotedName(l)
	if err != nil {
		return nil, err
	}
	return instr.Checkpoint{Label: name}, nil
}

func parseGoto(l *line) (instr.Op, error) {
	name, err := quotedName(l)
	if err != nil {
		return nil, err
	}
	return instr.Goto{Label: name}, nil
}

func parseIf(l *line) (instr.Op, error) {
	text := l.rest(1)
	if text == "" {
		return nil, failf("missing condition")
	}

	c, err := cond.Parse(text)
	if err != nil {
		return nil, fail("bad condition", err)
	}
	return instr.If{Cond: c}, nil
}

func parseCv(l *line) (instr.Op, error) {
	sub, _ := l.word(1)
	if sub != "match" {
		return nil, failf("unknown cv command %q, expected match", sub)
	}

	if err := expectTokens(l, 5); err != nil {
		return nil, err
	}

	path := l.toks[2].text
	if path == "" {
		return nil, failf("missing image path")
	}

	threshold, err := parseInt(strings.TrimSuffix(l.toks[3].text, "%"), 64, "threshold")
	if err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 100 {
		return nil, fail("bad threshold",
			&instr.InvalidLiteral{Text: l.toks[3].text, Expected: "percentage (0-100)"})
	}

	name, err := targetVar(l, 4)
	if err != nil {
		return nil, err
	}

	return instr.CvMatch{Path: path, Threshold: int(threshold), Var: name}, nil
}

func parseSleep(l *line) (instr.Op, error) {
	if err := expectTokens(l, 2); err != nil {
		return nil, err
	}

	ms, err := parseInt(l.toks[1].text, 64, "duration")
	if err != nil {
		return nil, err
	}
	if ms < 0 {
		return nil, fail("bad duration",
			&instr.InvalidLiteral{Text: l.toks[1].text, Expected: "non-negative integer"})
	}

	return instr.Sleep{Millis: ms}, nil
}
