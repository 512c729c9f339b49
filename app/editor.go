package app

import (
	"fmt"
	"log/slog"

	"github.com/bvisness/scadflow/app/codegen"
	"github.com/bvisness/scadflow/app/config"
	"github.com/bvisness/scadflow/app/core"
	"github.com/bvisness/scadflow/app/nodes"
	"github.com/bvisness/scadflow/app/refactor"
	"lukechampine.com/blake3"
)

// InitialSnapshot names the first history item of every editor.
const InitialSnapshot = "Open project"

type EditorOptions struct {
	HistoryLimit int
	Render       codegen.Options
}

func DefaultEditorOptions() EditorOptions {
	return OptionsFromSettings(config.DefaultSettings())
}

func OptionsFromSettings(s *config.Settings) EditorOptions {
	return EditorOptions{
		HistoryLimit: s.History.Limit,
		Render:       codegen.Options{Indent: s.IndentString()},
	}
}

// Editor is what a user interface drives: it applies edits through the
// refactoring engine, records each successful edit in the history, and
// renders code on demand. It is not safe for concurrent use.
type Editor struct {
	Project *core.Project
	Engine  *refactor.Engine
	History *History
	State   EditorState
	Options EditorOptions

	logger      *slog.Logger
	savedDigest [32]byte
}

// NewEditor starts editing p. The initial state becomes the first history
// item and counts as saved.
func NewEditor(p *core.Project, opts EditorOptions, logger *slog.Logger) (*Editor, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Editor{
		Project: p,
		Engine:  refactor.NewEngine(refactor.DefaultRules(), logger),
		History: NewHistory(p.Kinds, opts.HistoryLimit, logger),
		State:   EditorState{Tabs: []OpenTab{{InvokableID: p.Main().Description.ID, Active: true}}},
		Options: opts,
		logger:  logger,
	}
	if err := e.History.AddSnapshot(InitialSnapshot, p, e.State); err != nil {
		return nil, err
	}
	e.MarkSaved()
	return e, nil
}

// NewEmptyEditor starts editing a fresh project.
func NewEmptyEditor(opts EditorOptions, logger *slog.Logger) (*Editor, error) {
	return NewEditor(nodes.NewProject(), opts, logger)
}

// OpenEditor loads a saved project and starts editing it.
func OpenEditor(data []byte, path string, opts EditorOptions, logger *slog.Logger) (*Editor, error) {
	p, err := core.LoadProject(data, path, nodes.Registry())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return NewEditor(p, opts, logger)
}

// Apply performs an edit. Nothing changes when it fails; when it succeeds
// the new state is recorded in the history under name.
func (e *Editor) Apply(name string, refactorings ...refactor.Refactoring) ([]core.Change, error) {
	changes, err := e.Engine.Apply(e.Project, name, refactorings...)
	if err != nil {
		return nil, err
	}
	if err := e.History.AddSnapshot(name, e.Project, e.State); err != nil {
		return changes, err
	}
	return changes, nil
}

func (e *Editor) Undo() bool {
	p, state, ok := e.History.Undo()
	if ok {
		e.Project, e.State = p, state
	}
	return ok
}

func (e *Editor) Redo() bool {
	p, state, ok := e.History.Redo()
	if ok {
		e.Project, e.State = p, state
	}
	return ok
}

func (e *Editor) CanUndo() (bool, string) { return e.History.CanUndo() }
func (e *Editor) CanRedo() (bool, string) { return e.History.CanRedo() }

// ApplicableRefactorings lists the context-menu actions for a node.
func (e *Editor) ApplicableRefactorings(graphID string, id core.NodeID) []refactor.Entry {
	return refactor.Applicable(e.Project, graphID, id)
}

// CanConnect previews whether a connection would be accepted, for drag
// feedback.
func (e *Editor) CanConnect(graphID string, c core.Connection) refactor.Verdict {
	return e.Engine.CanConnect(e.Project, graphID, c)
}

// Copy encodes nodes of a graph for the system clipboard.
func (e *Editor) Copy(graphID string, ids ...core.NodeID) (string, error) {
	g, ok := e.Project.Graph(graphID)
	if !ok {
		return "", fmt.Errorf("no graph %q", graphID)
	}
	return core.CopyNodes(g, ids).Encode()
}

// Paste adds the nodes of clipboard text produced by Copy to a graph.
func (e *Editor) Paste(graphID, text string) ([]core.Change, error) {
	clip, err := core.DecodeClipboard(text)
	if err != nil {
		return nil, err
	}
	if len(clip.Nodes) == 0 {
		return nil, nil
	}
	return e.Apply("Paste", &refactor.Paste{Graph: graphID, Clipboard: clip})
}

// Render generates the code of one local invokable.
func (e *Editor) Render(invokableID string) (string, error) {
	inv, ok := e.Project.LocalInvokable(invokableID)
	if !ok {
		return "", fmt.Errorf("no local invokable %q", invokableID)
	}
	return codegen.RenderInvokable(e.Project, inv, e.Options.Render)
}

func (e *Editor) RenderProject() (string, error) {
	return codegen.RenderProject(e.Project, e.Options.Render)
}

// Save serializes the current project. Call MarkSaved once the bytes are
// safely stored.
func (e *Editor) Save() ([]byte, error) {
	return core.SaveProject(e.Project)
}

func (e *Editor) MarkSaved() {
	e.savedDigest = e.digest()
}

// Modified reports whether the project differs from the last saved state.
// Undoing back to the saved state counts as unmodified.
func (e *Editor) Modified() bool {
	return e.digest() != e.savedDigest
}

func (e *Editor) digest() [32]byte {
	data, err := core.SaveProject(e.Project)
	if err != nil {
		e.logger.Error("hashing project failed", "error", err)
		return [32]byte{}
	}
	return blake3.Sum256(data)
}
