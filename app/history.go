package app

import (
	"fmt"
	"log/slog"

	"github.com/bvisness/scadflow/app/core"
	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"
)

const (
	NoMoreUndo = "no more undo steps"
	NoMoreRedo = "no more redo steps"
)

// OpenTab describes one open graph tab. The history stores it without
// looking inside.
type OpenTab struct {
	InvokableID string
	Active      bool
	ScrollX     float32
	ScrollY     float32
}

type EditorState struct {
	Tabs []OpenTab
}

func (s EditorState) Clone() EditorState {
	return EditorState{Tabs: append([]OpenTab(nil), s.Tabs...)}
}

// HistoryItem is one undo step: the state of the project and the editor after
// the named operation.
type HistoryItem struct {
	Name        string
	Path        string
	Snapshot    []byte // zstd-compressed project save
	Digest      [32]byte
	EditorState EditorState
}

// History handles undo and redo by storing full serialized snapshots of the
// project. Any new snapshot after an undo drops the redo branch.
type History struct {
	items   []HistoryItem
	current int

	// Limit caps the number of items; the oldest go first. 0 means no cap.
	Limit int

	kinds  *core.KindRegistry
	logger *slog.Logger
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

// NewHistory creates an empty history. The first AddSnapshot records the
// initial state, which can never be undone.
func NewHistory(kinds *core.KindRegistry, limit int, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Errorf("creating zstd encoder: %w", err))
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Errorf("creating zstd decoder: %w", err))
	}
	return &History{
		current: -1,
		Limit:   limit,
		kinds:   kinds,
		logger:  logger,
		enc:     enc,
		dec:     dec,
	}
}

// AddSnapshot records the project and editor state after the named operation.
func (h *History) AddSnapshot(name string, p *core.Project, state EditorState) error {
	data, err := core.SaveProject(p)
	if err != nil {
		h.logger.Error("history snapshot failed", "operation", name, "error", err)
		return fmt.Errorf("snapshot %q: %w", name, err)
	}

	h.items = append(h.items[:h.current+1], HistoryItem{
		Name:        name,
		Path:        p.Path,
		Snapshot:    h.enc.EncodeAll(data, nil),
		Digest:      blake3.Sum256(data),
		EditorState: state.Clone(),
	})
	h.current = len(h.items) - 1

	if h.Limit > 0 && len(h.items) > h.Limit {
		drop := len(h.items) - h.Limit
		h.items = append([]HistoryItem(nil), h.items[drop:]...)
		h.current -= drop
	}

	h.logger.Debug("history snapshot", "operation", name, "index", h.current, "bytes", len(h.items[h.current].Snapshot))
	return nil
}

// Undo steps back one item and returns the project and editor state stored
// there. ok is false when only the initial state is left.
func (h *History) Undo() (*core.Project, EditorState, bool) {
	if h.current <= 0 {
		return nil, EditorState{}, false
	}
	p, err := h.restore(h.current - 1)
	if err != nil {
		return nil, EditorState{}, false
	}
	h.current--
	return p, h.items[h.current].EditorState.Clone(), true
}

// Redo steps forward one item. ok is false when there is nothing to redo.
func (h *History) Redo() (*core.Project, EditorState, bool) {
	if h.current >= len(h.items)-1 {
		return nil, EditorState{}, false
	}
	p, err := h.restore(h.current + 1)
	if err != nil {
		return nil, EditorState{}, false
	}
	h.current++
	return p, h.items[h.current].EditorState.Clone(), true
}

// CanUndo reports whether Undo would succeed, and the name of the operation
// it would revert.
func (h *History) CanUndo() (bool, string) {
	if h.current <= 0 {
		return false, NoMoreUndo
	}
	return true, h.items[h.current].Name
}

// CanRedo reports whether Redo would succeed, and the name of the operation
// it would replay.
func (h *History) CanRedo() (bool, string) {
	if h.current >= len(h.items)-1 {
		return false, NoMoreRedo
	}
	return true, h.items[h.current+1].Name
}

func (h *History) Len() int     { return len(h.items) }
func (h *History) Current() int { return h.current }

// Items returns the recorded steps, oldest first.
func (h *History) Items() []HistoryItem {
	return h.items
}

// CurrentDigest is the digest of the uncompressed snapshot at the current
// index, or the zero digest when nothing was recorded.
func (h *History) CurrentDigest() [32]byte {
	if h.current < 0 {
		return [32]byte{}
	}
	return h.items[h.current].Digest
}

// Snapshot returns the uncompressed project save at index.
func (h *History) Snapshot(index int) ([]byte, error) {
	data, err := h.dec.DecodeAll(h.items[index].Snapshot, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot %d: %w", index, err)
	}
	return data, nil
}

func (h *History) restore(index int) (*core.Project, error) {
	data, err := h.Snapshot(index)
	if err == nil {
		var p *core.Project
		p, err = core.LoadProject(data, h.items[index].Path, h.kinds)
		if err == nil {
			return p, nil
		}
	}
	h.logger.Error("history restore failed", "index", index, "operation", h.items[index].Name, "error", err)
	return nil, err
}
