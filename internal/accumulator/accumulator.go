// Package accumulator reconstructs complete tool invocations from ordered
// partial deltas, each tagged with the slot index of the parallel call it
// belongs to.
package accumulator

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/zgsm-ai/response-parser/internal/config"
	"github.com/zgsm-ai/response-parser/internal/types"
)

// Fragment is one streaming tool-call delta
type Fragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// slotState is the mutable scratch for one in-flight tool call. It exists
// only for the lifetime of one streaming parse.
type slotState struct {
	id   string
	name string
	args strings.Builder
}

// PartialFunc receives advisory non-final snapshots for live display. The
// snapshot's ArgumentsJSON may be invalid JSON; it is superseded by the final
// emission.
type PartialFunc func(types.StructuredToolCall)

// Accumulator assembles tool calls from fragments. It is owned by exactly one
// in-flight parse and must not be shared across calls. Fragments for a given
// slot must arrive in production order; out-of-order delivery is a caller
// error, not a handled case.
type Accumulator struct {
	cfg       config.AccumulatorConfig
	slots     map[int]*slotState
	onPartial PartialFunc
}

// New creates an empty accumulator
func New(cfg config.AccumulatorConfig) *Accumulator {
	return &Accumulator{
		cfg:   cfg,
		slots: make(map[int]*slotState),
	}
}

// OnPartial registers the advisory snapshot callback. Snapshots are only
// produced when EmitPartialCalls is enabled and the slot's name is known.
func (a *Accumulator) OnPartial(fn PartialFunc) {
	a.onPartial = fn
}

// Apply folds one fragment into its slot. A non-empty id or name overwrites
// the previous value (last write wins); argument fragments are appended
// verbatim. When the slot crosses the completion condition, the finished call
// is returned, the slot is removed, and ok is true.
func (a *Accumulator) Apply(f Fragment) (call types.StructuredToolCall, ok bool) {
	slot, exists := a.slots[f.Index]
	if !exists {
		slot = &slotState{}
		a.slots[f.Index] = slot
	}

	if f.ID != "" {
		slot.id = f.ID
	}
	if f.Name != "" {
		slot.name = f.Name
	}
	if f.Arguments != "" {
		slot.args.WriteString(f.Arguments)
	}

	if slot.complete() {
		call = slot.finish()
		delete(a.slots, f.Index)
		return call, true
	}

	if a.cfg.EmitPartialCalls && a.onPartial != nil && slot.name != "" && f.Arguments != "" {
		a.onPartial(types.StructuredToolCall{
			ID:            slot.id,
			Name:          slot.name,
			ArgumentsJSON: slot.args.String(),
		})
	}

	return types.StructuredToolCall{}, false
}

// complete reports whether the slot holds one whole tool call: a name plus an
// argument buffer that is a balanced, syntactically valid JSON object.
func (s *slotState) complete() bool {
	if s.name == "" {
		return false
	}
	args := strings.TrimSpace(s.args.String())
	if args == "" || !strings.HasPrefix(args, "{") || !strings.HasSuffix(args, "}") {
		return false
	}
	return json.Valid([]byte(args))
}

// flushable is the looser end-of-stream condition: the buffer is valid JSON
// of any shape, even if it never crossed the object-completion bar.
func (s *slotState) flushable() bool {
	if s.name == "" {
		return false
	}
	args := strings.TrimSpace(s.args.String())
	return args != "" && json.Valid([]byte(args))
}

// finish materializes the immutable call for a slot whose buffer is valid
// JSON. Non-object payloads keep their raw form with a parse error recorded.
func (s *slotState) finish() types.StructuredToolCall {
	id := s.id
	if id == "" {
		id = newCallID()
	}
	raw := strings.TrimSpace(s.args.String())

	call := types.StructuredToolCall{
		ID:            id,
		Name:          s.name,
		ArgumentsJSON: raw,
	}

	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		call.ParseError = "arguments are not a JSON object"
	} else {
		call.Arguments = args
	}
	return call
}

// Flush handles end of stream. Slots that never completed are emitted only
// when FlushValidIncomplete is set and the buffered arguments are already
// valid JSON; everything else is dropped. Emission order follows slot
// index. The scratch map is cleared either way.
func (a *Accumulator) Flush() []types.StructuredToolCall {
	defer func() {
		a.slots = make(map[int]*slotState)
	}()

	if !a.cfg.FlushValidIncomplete || len(a.slots) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(a.slots))
	for idx := range a.slots {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var calls []types.StructuredToolCall
	for _, idx := range indexes {
		slot := a.slots[idx]
		if slot.flushable() {
			calls = append(calls, slot.finish())
		}
	}
	return calls
}

// Pending returns the number of slots still awaiting completion
func (a *Accumulator) Pending() int {
	return len(a.slots)
}

func newCallID() string {
	return "func_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
