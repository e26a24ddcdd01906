package render

// Pass is one post-processing step. Passes mutate the frame in place.
type Pass interface {
	Apply(f *Frame)
}

type PassFunc func(f *Frame)

func (fn PassFunc) Apply(f *Frame) { fn(f) }

// Effects is an ordered, named chain of passes.
type Effects struct {
	names  []string
	passes map[string]Pass
}

func NewEffects() *Effects { return &Effects{passes: map[string]Pass{}} }

// Add appends a pass, or replaces it in place when name is taken.
func (e *Effects) Add(name string, p Pass) {
	if p == nil {
		return
	}
	if e.passes == nil {
		e.passes = map[string]Pass{}
	}
	if _, ok := e.passes[name]; !ok {
		e.names = append(e.names, name)
	}
	e.passes[name] = p
}

func (e *Effects) Remove(name string) bool {
	if _, ok := e.passes[name]; !ok {
		return false
	}
	delete(e.passes, name)
	for i, n := range e.names {
		if n == name {
			e.names = append(e.names[:i], e.names[i+1:]...)
			break
		}
	}
	return true
}

func (e *Effects) Get(name string) (Pass, bool) { p, ok := e.passes[name]; return p, ok }

func (e *Effects) Has(name string) bool { _, ok := e.passes[name]; return ok }

func (e *Effects) Names() []string { return append([]string(nil), e.names...) }

func (e *Effects) Len() int { return len(e.names) }

func (e *Effects) Apply(f *Frame) {
	for _, n := range e.names {
		e.passes[n].Apply(f)
	}
}
