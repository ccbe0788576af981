package upload

import (
	"fmt"
	"sync"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusUploading Status = "uploading"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// Progress is one update emitted by the scheduler for a single index.
type Progress struct {
	Status   Status
	Progress int
	Result   *UploadedFile
	Error    string
}

// Item tracks one file of a batch. Progress is in [0,100].
type Item struct {
	File     FileHandle
	Status   Status
	Progress int
	Error    string
	Result   *UploadedFile
}

func (i *Item) apply(p Progress) {
	if p.Status != "" {
		i.Status = p.Status
	}
	i.Progress = clampProgress(p.Progress)
	i.Error = p.Error
	if p.Result != nil {
		i.Result = p.Result
	}
}

func clampProgress(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Batch is the ordered list of files queued for one submission. A file whose
// FileKey is already queued is ignored. Apply is safe to call from the
// scheduler's workers.
type Batch struct {
	mu    sync.RWMutex
	items []*Item
}

func NewBatch(files ...FileHandle) *Batch {
	b := &Batch{}
	b.Add(files...)
	return b
}

// Add queues files not already present and returns how many were added.
func (b *Batch) Add(files ...FileHandle) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]struct{}, len(b.items))
	for _, it := range b.items {
		seen[FileKey(it.File)] = struct{}{}
	}

	added := 0
	for _, f := range files {
		if f == nil {
			continue
		}
		key := FileKey(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		b.items = append(b.items, &Item{File: f, Status: StatusQueued})
		added++
	}
	return added
}

// Remove drops the item at index.
func (b *Batch) Remove(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return fmt.Errorf("upload item %d out of range", index)
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	return nil
}

// Apply records a progress update for the item at index. Unknown indexes are
// ignored.
func (b *Batch) Apply(index int, p Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return
	}
	b.items[index].apply(p)
}

func (b *Batch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Files returns the queued files in order.
func (b *Batch) Files() []FileHandle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	files := make([]FileHandle, len(b.items))
	for i, it := range b.items {
		files[i] = it.File
	}
	return files
}

// Items returns a snapshot of every item.
func (b *Batch) Items() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Item, len(b.items))
	for i, it := range b.items {
		out[i] = *it
	}
	return out
}
