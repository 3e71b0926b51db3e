package emv

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// maxLength é o maior tamanho representável em dois dígitos
const maxLength = 99

// Node é um nó da árvore MPM. Só existem duas implementações: *Field e *MultiField.
type Node interface {
	ID() string
	Name() string
	Size() int
	Required() bool
	Export() (string, error)

	node()
}

// Field é um campo simples (folha) do código
type Field struct {
	id       string
	name     string
	size     int
	required bool
	def      string
	value    string
}

// NewField cria um campo simples
func NewField(id, name string, size int, required bool, def string) *Field {
	return &Field{
		id:       id,
		name:     name,
		size:     size,
		required: required,
		def:      def,
	}
}

func (f *Field) node() {}

// ID retorna o identificador de dois dígitos
func (f *Field) ID() string { return f.id }

// Name retorna o nome do campo
func (f *Field) Name() string { return f.name }

// Size retorna o tamanho máximo do valor, em caracteres
func (f *Field) Size() int { return f.size }

// Required informa se o campo é obrigatório
func (f *Field) Required() bool { return f.required }

// SetRequired altera a obrigatoriedade do campo
func (f *Field) SetRequired(required bool) *Field {
	f.required = required
	return f
}

// Default retorna o valor padrão
func (f *Field) Default() string { return f.def }

// SetDefault altera o valor padrão
func (f *Field) SetDefault(def string) *Field {
	f.def = def
	return f
}

// SetValue altera o valor, cortando o excedente ao tamanho do campo.
// Uma string vazia remove o valor.
func (f *Field) SetValue(v string) *Field {
	f.value = truncate(v, f.size)
	return f
}

// SetValueStrict altera o valor e falha se ele exceder o tamanho do campo
func (f *Field) SetValueStrict(v string) error {
	if n := utf8.RuneCountInString(v); n > f.size {
		return &FieldTooLongError{ID: f.id, Name: f.name, Size: f.size, Length: n}
	}
	f.value = v
	return nil
}

// SetRawValue altera o valor sem checar o tamanho.
// Usado na leitura de códigos existentes.
func (f *Field) SetRawValue(v string) *Field {
	f.value = v
	return f
}

// HasValue informa se o campo tem um valor próprio, sem contar o padrão
func (f *Field) HasValue() bool {
	return f.value != ""
}

// Value retorna o valor, o padrão ou uma string vazia
func (f *Field) Value() string {
	if f.value != "" {
		return f.value
	}
	return f.def
}

// Export gera a entrada TLV do campo
func (f *Field) Export() (string, error) {
	return export(f, f.Value())
}

// MultiField é um campo composto por outros campos
type MultiField struct {
	id       string
	name     string
	size     int
	required bool
	minID    int
	maxID    int
	fields   map[string]Node
}

// NewMultiField cria um campo composto que aceita filhos com ids entre minID e maxID
func NewMultiField(id, name string, size int, required bool, minID, maxID int) *MultiField {
	return &MultiField{
		id:       id,
		name:     name,
		size:     size,
		required: required,
		minID:    minID,
		maxID:    maxID,
		fields:   make(map[string]Node),
	}
}

func (m *MultiField) node() {}

// ID retorna o identificador de dois dígitos
func (m *MultiField) ID() string { return m.id }

// Name retorna o nome do campo
func (m *MultiField) Name() string { return m.name }

// Size retorna o tamanho máximo do valor
func (m *MultiField) Size() int { return m.size }

// Required informa se o campo é obrigatório
func (m *MultiField) Required() bool { return m.required }

// SetRequired altera a obrigatoriedade do campo
func (m *MultiField) SetRequired(required bool) *MultiField {
	m.required = required
	return m
}

// AddField inclui ou substitui um filho
func (m *MultiField) AddField(n Node) error {
	id, err := strconv.Atoi(n.ID())
	if err != nil || id < m.minID || id > m.maxID {
		return &ChildIDOutOfRangeError{ContainerID: m.id, ChildID: n.ID(), Min: m.minID, Max: m.maxID}
	}
	m.fields[n.ID()] = n
	return nil
}

// MustAddField é como AddField, mas entra em pânico se o id estiver fora da faixa
func (m *MultiField) MustAddField(n Node) *MultiField {
	if err := m.AddField(n); err != nil {
		panic(err)
	}
	return m
}

// Field retorna o filho com o id informado ou nil.
// Pode ser chamado em um *MultiField nil.
func (m *MultiField) Field(id string) Node {
	if m == nil {
		return nil
	}
	return m.fields[id]
}

// Leaf retorna o filho simples com o id informado ou nil
func (m *MultiField) Leaf(id string) *Field {
	if m == nil {
		return nil
	}
	f, _ := m.fields[id].(*Field)
	return f
}

// HasField informa se existe um filho com o id informado
func (m *MultiField) HasField(id string) bool {
	_, ok := m.fields[id]
	return ok
}

// RemoveField remove o filho com o id informado
func (m *MultiField) RemoveField(id string) *MultiField {
	delete(m.fields, id)
	return m
}

// Fields retorna os filhos em ordem crescente de id
func (m *MultiField) Fields() []Node {
	return sortedNodes(m.fields)
}

// Value concatena a exportação dos filhos em ordem crescente de id
func (m *MultiField) Value() (string, error) {
	return exportAll(m.fields)
}

// Export gera a entrada TLV do campo composto
func (m *MultiField) Export() (string, error) {
	v, err := m.Value()
	if err != nil {
		return "", err
	}
	if length := utf8.RuneCountInString(v); length > m.size && m.size <= maxLength {
		return "", &FieldTooLongError{ID: m.id, Name: m.name, Size: m.size, Length: length}
	}
	return export(m, v)
}

func export(n Node, v string) (string, error) {
	if v == "" {
		if n.Required() {
			return "", &RequiredFieldMissingError{ID: n.ID(), Name: n.Name()}
		}
		return "", nil
	}

	length := utf8.RuneCountInString(v)
	if length > maxLength {
		panic(fmt.Sprintf("emv: campo %s com %d caracteres", n.ID(), length))
	}
	return fmt.Sprintf("%s%02d%s", n.ID(), length, v), nil
}

func exportAll(fields map[string]Node) (string, error) {
	var code string
	for _, n := range sortedNodes(fields) {
		s, err := n.Export()
		if err != nil {
			return "", err
		}
		code += s
	}
	return code, nil
}

func sortedNodes(fields map[string]Node) []Node {
	list := make([]Node, 0, len(fields))
	for _, n := range fields {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		a, _ := strconv.Atoi(list[i].ID())
		b, _ := strconv.Atoi(list[j].ID())
		return a < b
	})
	return list
}

func truncate(v string, size int) string {
	if utf8.RuneCountInString(v) <= size {
		return v
	}
	return string([]rune(v)[:size])
}
