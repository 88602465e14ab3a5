package validation

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formcheck/pkg/model"
)

// Form binds a Validator to a Record. FieldErrors, IsFormValid and Result are
// derived values: they are recomputed from a single consistent view of the
// record whenever its version moved since the last evaluation, and served from
// the memo otherwise.
type Form struct {
	validator *Validator
	record    *Record

	mu        sync.Mutex
	memo      Result
	memoVer   uint64
	evaluated bool

	listenerMu sync.Mutex
	nextID     uint64
	listeners  map[uint64]func(Result)

	unsubscribe func()
}

// Bind attaches validator to record.
func Bind(validator *Validator, record *Record) (*Form, error) {
	if validator == nil {
		return nil, ErrNilValidator
	}
	if record == nil {
		return nil, ErrNilRecord
	}
	f := &Form{
		validator: validator,
		record:    record,
		listeners: make(map[uint64]func(Result)),
	}
	f.unsubscribe = record.Subscribe(f.changed)
	return f, nil
}

// NewForm compiles schema and binds it to record in one step.
func NewForm(schema model.Schema, record *Record, opts ...Option) (*Form, error) {
	v, err := New(schema, opts...)
	if err != nil {
		return nil, err
	}
	return Bind(v, record)
}

// Schema returns the bound schema.
func (f *Form) Schema() model.Schema {
	return f.validator.Schema()
}

// Record returns the bound record.
func (f *Form) Record() *Record {
	return f.record
}

// Validator returns the bound validator.
func (f *Form) Validator() *Validator {
	return f.validator
}

// Result returns the error map and validity computed from the same record
// version.
func (f *Form) Result() Result {
	return f.current().Clone()
}

// FieldErrors returns the per-field messages for the current record state.
func (f *Form) FieldErrors() ErrorMap {
	return f.current().Errors.Clone()
}

// IsFormValid reports whether every field currently has no messages.
func (f *Form) IsFormValid() bool {
	return f.current().Valid
}

// ErrorsFor returns the current messages for one field.
func (f *Form) ErrorsFor(model string) []string {
	return append([]string{}, f.current().Errors.For(model)...)
}

// OnChange registers fn to receive the recomputed Result after each record
// mutation. It returns a function that removes the listener.
func (f *Form) OnChange(fn func(Result)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	f.listenerMu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.listenerMu.Lock()
			delete(f.listeners, id)
			f.listenerMu.Unlock()
		})
	}
}

// Close detaches the form from its record. Derived values can still be read
// afterwards; change listeners stop firing.
func (f *Form) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
}

func (f *Form) current() Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.evaluated && f.record.Version() == f.memoVer {
		return f.memo
	}

	f.record.read(func(values map[string]any, version uint64) {
		f.memo = f.validator.Validate(values)
		f.memoVer = version
		f.evaluated = true
	})
	return f.memo
}

func (f *Form) changed(uint64) {
	f.listenerMu.Lock()
	if len(f.listeners) == 0 {
		f.listenerMu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]func(Result), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, f.listeners[id])
	}
	f.listenerMu.Unlock()

	result := f.current()
	for _, fn := range listeners {
		fn(result.Clone())
	}
}
