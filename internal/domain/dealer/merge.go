package dealer

import "github.com/ntwoods/dealerdocs/internal/domain/upload"

const unnamedFile = "Unnamed file"

// Attachments is the parallel id/name pair written to a record.
type Attachments struct {
	FileIDs   []string `json:"file_ids"`
	FileNames []string `json:"file_names"`
}

// Merge combines a record's existing attachments with newly uploaded files.
// Ids keep first-seen order and never repeat. A new file overrides the name
// of an id already present; a new file without a name keeps the existing
// name or becomes "Unnamed file". Empty ids are dropped.
func Merge(existingIDs, existingNames []string, newFiles []upload.UploadedFile) Attachments {
	var (
		order []string
		names = make(map[string]string, len(existingIDs)+len(newFiles))
	)

	set := func(id, name string) {
		if _, ok := names[id]; !ok {
			order = append(order, id)
		}
		names[id] = name
	}

	for i, id := range existingIDs {
		if id == "" {
			continue
		}
		name := ""
		if i < len(existingNames) {
			name = existingNames[i]
		}
		if name == "" {
			name = placeholderName(i)
		}
		set(id, name)
	}

	for _, f := range newFiles {
		if f.ID == "" {
			continue
		}
		name := f.Name
		if name == "" {
			name = names[f.ID]
		}
		if name == "" {
			name = unnamedFile
		}
		set(f.ID, name)
	}

	out := Attachments{
		FileIDs:   make([]string, len(order)),
		FileNames: make([]string, len(order)),
	}
	for i, id := range order {
		out.FileIDs[i] = id
		out.FileNames[i] = names[id]
	}
	return out
}
