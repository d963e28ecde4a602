// Package store owns the four record collections and their JSON backing
// files. Every mutation is persisted write-through before it returns; writes
// go through a temp file and rename so a crash never leaves a truncated file
// over valid prior state.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/strideapp/stride/internal/model"
)

const (
	tasksFile    = "tasks.json"
	projectsFile = "projects.json"
	journalFile  = "journal.json"
	checkinsFile = "checkins.json"
)

// Store is the process-local owner of all four collections. Construct it
// once with Open and pass it to consumers; nothing else touches the backing
// files while the process runs.
type Store struct {
	dir   string
	vocab *model.Vocab
	log   zerolog.Logger

	tasks    []*model.Task
	projects []*model.Project
	journal  []*model.JournalEntry
	checkins []*model.CheckIn

	// loadErr records per-collection load failures by file name. A failed
	// collection rejects every mutation: persisting over a file we could
	// not read would destroy its real contents.
	loadErr map[string]error
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithVocab replaces the default tag vocabulary.
func WithVocab(v *model.Vocab) Option {
	return func(s *Store) { s.vocab = v }
}

// WithLogger attaches a logger for diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open creates dir if needed and loads all four collections from it. A
// malformed backing file fails its collection with a StorageError; the
// remaining collections still load, and every failure is returned joined so
// the caller sees them all.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, model.StorageError{File: dir, Err: err}
	}
	s := &Store{
		dir:     dir,
		vocab:   model.DefaultVocab(),
		log:     zerolog.Nop(),
		loadErr: make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}

	var errs []error
	s.tasks = load[model.Task](s, tasksFile, &errs)
	s.projects = load[model.Project](s, projectsFile, &errs)
	s.journal = load[model.JournalEntry](s, journalFile, &errs)
	s.checkins = load[model.CheckIn](s, checkinsFile, &errs)
	if len(errs) > 0 {
		return s, errors.Join(errs...)
	}

	s.log.Debug().
		Str("dir", dir).
		Int("tasks", len(s.tasks)).
		Int("projects", len(s.projects)).
		Int("journal_entries", len(s.journal)).
		Int("checkins", len(s.checkins)).
		Msg("store loaded")
	return s, nil
}

// load reads one backing file into a fresh slice. A missing file is an empty
// collection, not an error. On failure the collection stays empty, the
// failure is recorded so mutations reject it, and the error is appended to
// errs.
func load[T any](s *Store, file string, errs *[]error) []*T {
	out, err := readCollection[T](filepath.Join(s.dir, file))
	if err != nil {
		s.loadErr[file] = err
		*errs = append(*errs, err)
		return nil
	}
	return out
}

// readCollection decodes one backing file. Records reach the caller only
// when the whole file decodes cleanly; a half-decoded slice must never
// become live state.
func readCollection[T any](path string) ([]*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.StorageError{File: filepath.Base(path), Err: err}
	}
	var out []*T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, model.StorageError{File: filepath.Base(path), Err: err}
	}
	return out, nil
}

// writeCollection serializes v and atomically replaces path with it.
func writeCollection(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.StorageError{File: filepath.Base(path), Err: err}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".stride-*")
	if err != nil {
		return model.StorageError{File: filepath.Base(path), Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return model.StorageError{File: filepath.Base(path), Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return model.StorageError{File: filepath.Base(path), Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return model.StorageError{File: filepath.Base(path), Err: err}
	}
	return nil
}

// Dir returns the directory holding the backing files.
func (s *Store) Dir() string { return s.dir }

// usable returns the recorded load failure for a collection's file, if any.
func (s *Store) usable(file string) error { return s.loadErr[file] }

// Vocab returns the tag vocabulary used for validation.
func (s *Store) Vocab() *model.Vocab { return s.vocab }

// --- Tasks ---

// AddTask constructs a task, appends it and persists the collection. A
// ProjectID pointing at no known project is tolerated; the task keeps the
// dangling reference and a warning is logged.
func (s *Store) AddTask(req model.NewTaskRequest) (*model.Task, error) {
	if err := s.usable(tasksFile); err != nil {
		return nil, err
	}
	t, err := model.NewTask(req)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != "" {
		if _, err := s.GetProject(t.ProjectID); err != nil {
			s.log.Warn().
				Str("task_id", t.ID).
				Str("project_id", t.ProjectID).
				Msg("task references unknown project")
		}
	}
	s.tasks = append(s.tasks, t)
	if err := s.persistTasks(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return nil, err
	}
	cp := *t
	return &cp, nil
}

// GetTask returns the task with the given id.
func (s *Store) GetTask(id string) (*model.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, model.NotFoundError{Kind: "task", ID: id}
}

// TaskFilter narrows ListTasks. Zero values match everything.
type TaskFilter struct {
	Status    model.TaskStatus
	ProjectID string
}

// ListTasks returns a snapshot of the tasks matching f, in creation order.
func (s *Store) ListTasks(f TaskFilter) []*model.Task {
	var out []*model.Task
	for _, t := range s.tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out
}

// TasksByProject returns every task referencing projectID.
func (s *Store) TasksByProject(projectID string) []*model.Task {
	return s.ListTasks(TaskFilter{ProjectID: projectID})
}

// taskTransitions holds the allowed status transitions. Completed is
// terminal.
var taskTransitions = map[model.TaskStatus][]model.TaskStatus{
	model.TaskPending:    {model.TaskInProgress, model.TaskCompleted},
	model.TaskInProgress: {model.TaskCompleted},
}

// UpdateTaskStatus moves a task to next and persists. Any transition not in
// the allowed set, including any transition out of completed, fails with
// InvalidStateError and leaves the record unchanged.
func (s *Store) UpdateTaskStatus(id string, next model.TaskStatus) (*model.Task, error) {
	if err := s.usable(tasksFile); err != nil {
		return nil, err
	}
	switch next {
	case model.TaskPending, model.TaskInProgress, model.TaskCompleted:
	default:
		return nil, model.NewValidationError("status", "must be one of pending, in_progress, completed")
	}
	var task *model.Task
	for _, t := range s.tasks {
		if t.ID == id {
			task = t
			break
		}
	}
	if task == nil {
		return nil, model.InvalidStateError{Kind: "task", ID: id, Message: "does not exist"}
	}
	allowed := false
	for _, to := range taskTransitions[task.Status] {
		if to == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, model.InvalidStateError{
			Kind:    "task",
			ID:      id,
			Message: "cannot transition from " + string(task.Status) + " to " + string(next),
		}
	}

	prev := *task
	task.Status = next
	if next == model.TaskCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	if err := s.persistTasks(); err != nil {
		*task = prev
		return nil, err
	}
	cp := *task
	return &cp, nil
}

// CompleteTask transitions a pending or in-progress task to completed and
// stamps CompletedAt.
func (s *Store) CompleteTask(id string) (*model.Task, error) {
	return s.UpdateTaskStatus(id, model.TaskCompleted)
}

func (s *Store) persistTasks() error {
	return writeCollection(filepath.Join(s.dir, tasksFile), orEmpty(s.tasks))
}

// --- Projects ---

// AddProject constructs an active project, appends it and persists.
func (s *Store) AddProject(req model.NewProjectRequest) (*model.Project, error) {
	if err := s.usable(projectsFile); err != nil {
		return nil, err
	}
	p, err := model.NewProject(req)
	if err != nil {
		return nil, err
	}
	s.projects = append(s.projects, p)
	if err := s.persistProjects(); err != nil {
		s.projects = s.projects[:len(s.projects)-1]
		return nil, err
	}
	cp := *p
	return &cp, nil
}

// GetProject returns the project with the given id.
func (s *Store) GetProject(id string) (*model.Project, error) {
	for _, p := range s.projects {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.NotFoundError{Kind: "project", ID: id}
}

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	Status model.ProjectStatus
}

// ListProjects returns a snapshot of the projects matching f, in creation
// order.
func (s *Store) ListProjects(f ProjectFilter) []*model.Project {
	var out []*model.Project
	for _, p := range s.projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out
}

// ArchiveProject moves an active project to archived. Archiving does not
// cascade: tasks keep their project reference.
func (s *Store) ArchiveProject(id string) (*model.Project, error) {
	if err := s.usable(projectsFile); err != nil {
		return nil, err
	}
	var project *model.Project
	for _, p := range s.projects {
		if p.ID == id {
			project = p
			break
		}
	}
	if project == nil {
		return nil, model.NotFoundError{Kind: "project", ID: id}
	}
	if project.Status != model.ProjectActive {
		return nil, model.InvalidStateError{Kind: "project", ID: id, Message: "already archived"}
	}
	project.Status = model.ProjectArchived
	if err := s.persistProjects(); err != nil {
		project.Status = model.ProjectActive
		return nil, err
	}
	cp := *project
	return &cp, nil
}

func (s *Store) persistProjects() error {
	return writeCollection(filepath.Join(s.dir, projectsFile), orEmpty(s.projects))
}

// --- Journal ---

// AddJournalEntry appends an immutable journal entry and persists. There is
// no update operation; the journal is an append-only log.
func (s *Store) AddJournalEntry(req model.NewJournalEntryRequest) (*model.JournalEntry, error) {
	if err := s.usable(journalFile); err != nil {
		return nil, err
	}
	e, err := model.NewJournalEntry(s.vocab, req)
	if err != nil {
		return nil, err
	}
	s.journal = append(s.journal, e)
	if err := writeCollection(filepath.Join(s.dir, journalFile), orEmpty(s.journal)); err != nil {
		s.journal = s.journal[:len(s.journal)-1]
		return nil, err
	}
	cp := *e
	return &cp, nil
}

// GetJournalEntry returns the entry with the given id.
func (s *Store) GetJournalEntry(id string) (*model.JournalEntry, error) {
	for _, e := range s.journal {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, model.NotFoundError{Kind: "journal entry", ID: id}
}

// JournalEntriesSince returns entries created at or after t, newest first.
func (s *Store) JournalEntriesSince(t time.Time) []*model.JournalEntry {
	var out []*model.JournalEntry
	for _, e := range s.journal {
		if !e.CreatedAt.Before(t) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// RecentJournalEntries returns the n most recent entries, newest first.
func (s *Store) RecentJournalEntries(n int) []*model.JournalEntry {
	out := make([]*model.JournalEntry, 0, len(s.journal))
	for _, e := range s.journal {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// --- Check-ins ---

// AddCheckIn appends a check-in and persists. One check-in per (date, slot)
// is what the workflow expects, but duplicates are permitted and accumulate.
func (s *Store) AddCheckIn(req model.NewCheckInRequest) (*model.CheckIn, error) {
	if err := s.usable(checkinsFile); err != nil {
		return nil, err
	}
	c, err := model.NewCheckIn(s.vocab, req)
	if err != nil {
		return nil, err
	}
	s.checkins = append(s.checkins, c)
	if err := writeCollection(filepath.Join(s.dir, checkinsFile), orEmpty(s.checkins)); err != nil {
		s.checkins = s.checkins[:len(s.checkins)-1]
		return nil, err
	}
	cp := *c
	return &cp, nil
}

// CheckInsOn returns the check-ins created on the same calendar day as day,
// in creation order.
func (s *Store) CheckInsOn(day time.Time) []*model.CheckIn {
	y, m, d := day.UTC().Date()
	var out []*model.CheckIn
	for _, c := range s.checkins {
		cy, cm, cd := c.CreatedAt.UTC().Date()
		if cy == y && cm == m && cd == d {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

// LatestCheckIn returns the most recently created check-in, or nil when
// none exist.
func (s *Store) LatestCheckIn() *model.CheckIn {
	var latest *model.CheckIn
	for _, c := range s.checkins {
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil
	}
	cp := *latest
	return &cp
}

// orEmpty keeps backing files as "[]" rather than "null" for empty
// collections.
func orEmpty[T any](in []*T) []*T {
	if in == nil {
		return []*T{}
	}
	return in
}
