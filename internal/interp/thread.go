package interp

// Start spawns t's function body on an independent Evaluator over a
// clone of the spawning environment, so the thread cannot observe
// concurrent mutation of the spawner's own locals after the clone point
// (spec.md §5 "Concurrency": "thread(fn[,arg]) spawns an independent
// evaluator over a cloned environment").
func (t *ThreadValue) Start(parent *Evaluator) {
	if t.started {
		return
	}
	t.started = true
	t.waitChan = make(chan struct{})
	threadEnv := t.Fn.Env.Clone()
	threadEval := &Evaluator{Global: threadEnv, Modules: parent.Modules, Stdout: parent.Stdout}

	go func() {
		defer close(t.waitChan)
		var args []Value
		if t.Arg != nil {
			args = []Value{t.Arg}
		}
		t.result = threadEval.callUserFunction(t.Fn, args, nil)
		t.done = true
	}()
}

// Join blocks until the thread's function body has returned, then
// yields its result (or an Error value if Start was never called).
func (t *ThreadValue) Join() Value {
	if !t.started {
		return NewError(UndefinedError, "thread was never started")
	}
	<-t.waitChan
	return t.result
}

// RegisterThreadMembers installs the Thread tag's bound-method table
// (`.start()`, `.join()`). Declared here rather than in internal/builtins
// since it closes over the Evaluator-spawning logic above.
func RegisterThreadMembers() {
	RegisterMember("Thread", "start", func(e *Evaluator, args []Value) Value {
		t := args[0].(*ThreadValue)
		t.Start(e)
		return t
	})
	RegisterMember("Thread", "join", func(e *Evaluator, args []Value) Value {
		t := args[0].(*ThreadValue)
		return t.Join()
	})
}
