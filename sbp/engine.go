package sbp

import (
	"fmt"
	"sync"
)

// EngineState names the run states of §4.6's state machine.
type EngineState int

const (
	StateIdle EngineState = iota
	StateRunning
	StatePaused
)

func (s EngineState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Engine drives a parsed Program against a Driver (§4.6). One Engine is
// created per run; Vars, Status, and Settings are never shared across runs
// (§9).
type Engine struct {
	Program  *Program
	Analysis *Analysis
	Vars     *VarTable
	Status   *Status
	Settings *Settings
	Driver   Driver

	pc    int
	stack []int
	chunk *Chunk
	state EngineState

	// signals carries pause/resume/stop requests into the run loop, the
	// same shape as a disturbance channel guarding a cooperative loop: the
	// loop selects on it between statements rather than being interrupted
	// asynchronously.
	signals chan string

	mu         sync.Mutex
	unsubFn    func()
	statusDone chan struct{}
}

// NewEngine constructs an Engine ready to Run prog.
func NewEngine(prog *Program, analysis *Analysis, driver Driver, settings *Settings) *Engine {
	return &Engine{
		Program:  prog,
		Analysis: analysis,
		Vars:     NewVarTable(),
		Status:   &Status{},
		Settings: settings,
		Driver:   driver,
		chunk:    NewChunk(1),
		signals:  make(chan string, 1),
	}
}

// Pause requests a pause at the next statement boundary.
func (e *Engine) Pause() { e.signals <- "pause" }

// Resume requests resumption from a paused state.
func (e *Engine) Resume() { e.signals <- "resume" }

// Stop requests the run terminate at the next statement boundary.
func (e *Engine) Stop() { e.signals <- "stop" }

// Run executes the program to completion (§4.6: Idle -> Running -> Idle,
// with End or a fatal error also transitioning Running -> Idle). It
// subscribes to the driver's status stream for the duration of the run and
// unsubscribes on every exit path, so a subsequent run starts from a clean
// chunk/pc/stack regardless of how the previous one ended (§9, resolving
// the "_end vs init" relationship).
func (e *Engine) Run() error {
	ch, unsub := e.Driver.Subscribe()
	e.unsubFn = unsub
	e.statusDone = make(chan struct{})
	go e.mirrorStatus(ch)
	defer e.shutdown()

	e.state = StateRunning
	e.pc = 0
	e.stack = e.stack[:0]
	e.chunk.Reset(1)

	for {
		select {
		case sig := <-e.signals:
			switch sig {
			case "stop":
				return nil
			case "pause":
				e.state = StatePaused
				if err := e.waitResume(); err != nil {
					return err
				}
				e.state = StateRunning
			}
		default:
		}

		if e.pc >= e.Program.Len() {
			if !e.chunk.Empty() {
				if err := e.flushAndAwait(); err != nil {
					return err
				}
				continue
			}
			return nil
		}

		stmt := &e.Program.Statements[e.pc]
		if err := e.step(stmt); err != nil {
			return err
		}
	}
}

func (e *Engine) waitResume() error {
	for {
		sig := <-e.signals
		switch sig {
		case "resume":
			return nil
		case "stop":
			return errStopWhilePaused
		}
	}
}

var errStopWhilePaused = fmt.Errorf("stopped while paused")

func (e *Engine) shutdown() {
	if e.unsubFn != nil {
		e.unsubFn()
	}
	<-e.statusDone
	e.state = StateIdle
	e.pc = 0
	e.stack = e.stack[:0]
	e.chunk.Reset(1)
}

func (e *Engine) mirrorStatus(ch <-chan StatusEvent) {
	defer close(e.statusDone)
	for ev := range ch {
		e.mu.Lock()
		e.Status.Merge(ev, e.chunk.StartLine())
		e.mu.Unlock()
	}
}

// step executes one statement per the loop body of §4.6.
func (e *Engine) step(stmt *Statement) error {
	switch stmt.Kind {
	case StmtLabel, StmtComment:
		e.pc++
		return nil
	case StmtEnd:
		e.pc = e.Program.Len()
		return nil
	case StmtGoto:
		target, err := e.Analysis.Resolve(stmt.Name, stmt.Line)
		if err != nil {
			return err
		}
		e.pc = target
		return nil
	case StmtGosub:
		target, err := e.Analysis.Resolve(stmt.Name, stmt.Line)
		if err != nil {
			return err
		}
		e.stack = append(e.stack, e.pc+1)
		e.pc = target
		return nil
	case StmtReturn:
		if len(e.stack) == 0 {
			return ErrReturnWithEmptyStack
		}
		top := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]
		e.pc = top
		return nil
	case StmtCond:
		if containsSysVar(stmt.Expr) {
			if err := e.preBreakFlush(); err != nil {
				return err
			}
		}
		ctx := e.evalCtx(stmt.Line)
		v, err := ctx.Eval(stmt.Expr)
		if err != nil {
			return err
		}
		if v != 0 {
			return e.step(stmt.Then)
		}
		e.pc++
		return nil
	case StmtPause:
		if stmt.Expr != nil {
			ctx := e.evalCtx(stmt.Line)
			secs, err := ctx.Eval(stmt.Expr)
			if err != nil {
				return err
			}
			e.chunk.Emit(fmt.Sprintf("G4 P%g", secs))
		}
		e.pc++
		return nil
	case StmtAssign:
		return e.execAssign(stmt)
	case StmtCmd:
		return e.execCmd(stmt)
	default:
		e.pc++
		return nil
	}
}

func (e *Engine) execAssign(stmt *Statement) error {
	breaking := IsBreaking(stmt)
	if breaking {
		if err := e.preBreakFlush(); err != nil {
			return err
		}
	}
	ctx := e.evalCtx(stmt.Line)
	v, err := ctx.Eval(stmt.Expr)
	if err != nil {
		return err
	}
	e.Vars.Set(stmt.Name, v)
	e.pc++
	return nil
}

func (e *Engine) execCmd(stmt *Statement) error {
	h, ok := handlers[stmt.Mnemonic]
	if !ok {
		return HandlerError{Line: stmt.Line, Mnemonic: stmt.Mnemonic, Msg: "unrecognized command"}
	}
	breaking := IsBreaking(stmt)
	if breaking {
		if err := e.preBreakFlush(); err != nil {
			return err
		}
	}
	if err := h(e, stmt); err != nil {
		return err
	}
	if breaking {
		if err := e.flushAndAwait(); err != nil {
			return err
		}
	}
	e.pc++
	return nil
}

// preBreakFlush flushes and awaits any chunk accumulated by prior
// non-breaking statements before a breaking statement begins its own
// driver interaction (§4.6 step 4).
func (e *Engine) preBreakFlush() error {
	if e.chunk.Empty() {
		return nil
	}
	return e.flushAndAwait()
}

// flushAndAwait submits the current chunk and blocks for the driver's
// running->stop transition, then resets the chunk anchored at the next
// statement's line. It is a no-op when the chunk is empty (§4.4, §4.6).
func (e *Engine) flushAndAwait() error {
	if e.chunk.Empty() {
		e.chunk.Reset(e.pc + 1)
		return nil
	}
	text := e.chunk.Text()
	if err := e.Driver.RunSegment(text); err != nil {
		return DriverError{Line: e.chunk.StartLine(), Op: "RunSegment", Err: err}
	}
	if err := e.Driver.AwaitState("stop"); err != nil {
		return DriverError{Line: e.chunk.StartLine(), Op: "AwaitState", Err: err}
	}
	e.chunk.Reset(e.pc + 1)
	return nil
}

// Emit appends a G-code line to the current chunk, for use by command
// handlers.
func (e *Engine) Emit(line string) {
	e.chunk.Emit(line)
}

func (e *Engine) evalCtx(line int) *EvalContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return NewEvalContext(e.Vars, e.Status, e.Settings, line)
}

// EvalArg evaluates args[i] against def when the slot is missing, omitted,
// or out of range (§4.5 "Missing or empty arguments take the declared
// default").
func (e *Engine) EvalArg(args []*Expr, i int, def float64, line int) (float64, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	ctx := e.evalCtx(line)
	return ctx.Eval(args[i])
}
