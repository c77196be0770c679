package il

// ValueKind distinguishes an operand that references a register (SSA id)
// from one carrying an immediate constant.
type ValueKind int

const (
	ValueTemp ValueKind = iota
	ValueConstInt
	ValueConstFloat
	ValueConstStr
	ValueConstNull
)

// Value is an instruction operand: either a reference to a previously
// defined SSA id, or an immediate constant of one of the scalar kinds.
type Value struct {
	Kind     ValueKind
	Temp     int
	ConstI   int64
	ConstF   float64
	ConstStr string
	Type     Kind
}

// Temp builds an operand referencing SSA id id.
func Temp(id int) Value { return Value{Kind: ValueTemp, Temp: id} }

// ConstInt builds an integer immediate of the given lane type.
func ConstInt(v int64, ty Kind) Value { return Value{Kind: ValueConstInt, ConstI: v, Type: ty} }

// ConstFloat builds a floating point immediate of the given lane type.
func ConstFloat(v float64, ty Kind) Value { return Value{Kind: ValueConstFloat, ConstF: v, Type: ty} }

// ConstStrVal builds a string-literal immediate.
func ConstStrVal(s string) Value { return Value{Kind: ValueConstStr, ConstStr: s, Type: Str} }

// ConstNull builds a typed null/zero immediate.
func ConstNull(ty Kind) Value { return Value{Kind: ValueConstNull, Type: ty} }
