package core

import (
	"context"
	"errors"

	"github.com/sarchlab/gomacro/api"
	"github.com/sarchlab/gomacro/cond"
	"github.com/sarchlab/gomacro/instr"
	"github.com/sarchlab/gomacro/vars"
)

type instEmulator struct {
	dispatcher api.Dispatcher
}

// RunInst executes one instruction and moves the program counter.
func (i instEmulator) RunInst(ctx context.Context, inst instr.Inst, state *coreState) error {
	switch op := inst.Op.(type) {
	case instr.VarSet:
		return i.runVarSet(op, state)
	case instr.VarIncrease:
		return i.runVarIncrease(op, state)
	case instr.Checkpoint:
		state.PC++
		return nil
	case instr.Goto:
		return i.runGoto(op, state)
	case instr.If:
		return i.runIf(op, state)
	case instr.MouseMove:
		return i.runMouseMove(ctx, op, state)
	case instr.MouseClick:
		return i.runMouseButton(ctx, op.Button, api.ButtonClick, state)
	case instr.MouseButtonDown:
		return i.runMouseButton(ctx, op.Button, api.ButtonDown, state)
	case instr.MouseButtonUp:
		return i.runMouseButton(ctx, op.Button, api.ButtonUp, state)
	case instr.KeyDown:
		return i.runKey(ctx, op.Key, api.KeyDown, state)
	case instr.KeyUp:
		return i.runKey(ctx, op.Key, api.KeyUp, state)
	case instr.KeyPress:
		return i.runKey(ctx, op.Key, api.KeyPress, state)
	case instr.KeyType:
		return i.runKeyType(ctx, op, state)
	case instr.Sleep:
		return i.runSleep(ctx, op, state)
	case instr.CvMatch:
		return i.runCvMatch(ctx, op, state)
	default:
		panic("unknown instruction " + inst.Op.Name())
	}
}

// actionError classifies a dispatcher failure. An interrupted action means
// the run was cancelled.
func actionError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, instr.ErrCancelled) {
		return instr.ErrCancelled
	}

	return &instr.ActionError{Op: op, Err: err}
}

func (i instEmulator) runVarSet(op instr.VarSet, state *coreState) error {
	state.Vars.Set(op.Var, op.Value)
	Trace("VarSet", "Var", op.Var, "Value", op.Value.String())

	state.PC++
	return nil
}

func (i instEmulator) runVarIncrease(op instr.VarIncrease, state *coreState) error {
	if err := state.Vars.Increase(op.Var, op.Amount); err != nil {
		return err
	}

	v, _ := state.Vars.Get(op.Var)
	Trace("VarIncrease", "Var", op.Var, "By", op.Amount, "Value", v.String())

	state.PC++
	return nil
}

// runGoto continues execution after the checkpoint.
func (i instEmulator) runGoto(op instr.Goto, state *coreState) error {
	target, ok := state.Code.Checkpoint(op.Label)
	if !ok {
		return &instr.UndefinedCheckpoint{Name: op.Label}
	}

	Trace("Goto", "Checkpoint", op.Label, "Target", target)

	state.PC = target + 1
	return nil
}

func (i instEmulator) runIf(op instr.If, state *coreState) error {
	ok, err := cond.Eval(op.Cond, state.Vars)
	if err != nil {
		return err
	}

	Trace("If", "Cond", op.Cond.Text, "Result", ok)

	state.SkipNext = !ok
	state.PC++
	return nil
}

func (i instEmulator) runMouseMove(ctx context.Context, op instr.MouseMove, state *coreState) error {
	v, err := op.Target.Resolve(state.Vars)
	if err != nil {
		return err
	}

	var pos instr.Position
	switch v := v.(type) {
	case instr.Position:
		pos = v
	case instr.Integer:
		return &instr.TypeMismatch{
			Name:     op.Target.Var,
			Expected: instr.KindPosition,
			Actual:   instr.KindInteger,
		}
	default:
		panic("unknown value type")
	}

	if err := i.dispatcher.MoveMouse(ctx, pos.X, pos.Y); err != nil {
		return actionError(op.Name(), err)
	}

	state.PC++
	return nil
}

func (i instEmulator) runMouseButton(
	ctx context.Context,
	button instr.Button,
	action api.ButtonAction,
	state *coreState,
) error {
	if err := i.dispatcher.MouseButton(ctx, button, action); err != nil {
		return actionError("mouse "+action.String(), err)
	}

	state.PC++
	return nil
}

func (i instEmulator) runKey(
	ctx context.Context,
	key string,
	action api.KeyAction,
	state *coreState,
) error {
	if err := i.dispatcher.KeyAction(ctx, key, action); err != nil {
		return actionError("key "+action.String(), err)
	}

	state.PC++
	return nil
}

func (i instEmulator) runKeyType(ctx context.Context, op instr.KeyType, state *coreState) error {
	if err := i.dispatcher.TypeText(ctx, op.Text); err != nil {
		return actionError(op.Name(), err)
	}

	state.PC++
	return nil
}

func (i instEmulator) runSleep(ctx context.Context, op instr.Sleep, state *coreState) error {
	if err := i.dispatcher.Sleep(ctx, op.Millis); err != nil {
		return actionError(op.Name(), err)
	}

	state.PC++
	return nil
}

// runCvMatch reports the outcome through the status variable. Only failures
// to perform the match are errors.
func (i instEmulator) runCvMatch(ctx context.Context, op instr.CvMatch, state *coreState) error {
	pos, found, err := i.dispatcher.MatchTemplate(ctx, op.Path, op.Threshold)
	if err != nil {
		return actionError(op.Name(), err)
	}

	if found {
		state.Vars.Set(op.Var, pos)
		state.Vars.SetStatus(vars.StatusOK)
	} else {
		state.Vars.SetStatus(vars.StatusFailed)
	}

	Trace("CvMatch", "Path", op.Path, "Found", found, "Pos", pos.String())

	state.PC++
	return nil
}
