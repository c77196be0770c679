package il

// Signature describes an extern (runtime-bridge) function's parameter and
// return kinds, independent of the host implementation.
type Signature struct {
	Name    string
	Params  []Kind
	Return  Kind
}

// Module is a set of functions, named global string constants, and an
// extern signature table — the unit the VM facade binds and executes.
// Constructing one from IL text is out of scope; callers build it directly.
type Module struct {
	Functions map[string]*Function
	Order     []string // function names in declaration order
	Globals   map[string]string
	Externs   map[string]Signature
}

// NewModule returns an empty, ready-to-populate Module.
func NewModule() *Module {
	return &Module{
		Functions: make(map[string]*Function),
		Globals:   make(map[string]string),
		Externs:   make(map[string]Signature),
	}
}

// AddFunction registers fn and builds its block index.
func (m *Module) AddFunction(fn *Function) error {
	if err := fn.BuildIndex(); err != nil {
		return err
	}
	if _, dup := m.Functions[fn.Name]; !dup {
		m.Order = append(m.Order, fn.Name)
	}
	m.Functions[fn.Name] = fn
	return nil
}
