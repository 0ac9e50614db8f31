package importer

import "strings"

// FolderMode controls how a Filter treats a file's containing folder once
// its extension has matched.
type FolderMode uint8

const (
	FolderAll    FolderMode = iota // accept any folder
	FolderOnly                     // accept only folders in the filter's set
	FolderExcept                   // accept any folder not in the filter's set
	FolderNone                     // reject every file
)

// Filter declares which resource files an importer handles: a set of
// accepted extensions plus a folder filter. Immutable after construction.
type Filter struct {
	exts    map[string]struct{}
	mode    FolderMode
	folders []string
}

// NewFilter builds a filter for the given extensions (with or without the
// leading dot, case-insensitive) and folder rule. Folders are paths relative
// to the resource root using "/" separators; a folder rule also covers its
// subfolders.
func NewFilter(exts []string, mode FolderMode, folders ...string) Filter {
	f := Filter{
		exts:    make(map[string]struct{}, len(exts)),
		mode:    mode,
		folders: make([]string, 0, len(folders)),
	}
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.exts[ext] = struct{}{}
	}
	for _, folder := range folders {
		f.folders = append(f.folders, strings.Trim(strings.ReplaceAll(folder, "\\", "/"), "/"))
	}
	return f
}

// Accepts reports whether a file with the given lowercase extension and
// root-relative folder passes the filter. The extension test is mandatory;
// the folder rule applies afterwards.
func (f Filter) Accepts(ext, folder string) bool {
	if _, ok := f.exts[strings.ToLower(ext)]; !ok {
		return false
	}
	switch f.mode {
	case FolderAll:
		return true
	case FolderOnly:
		return f.inSet(folder)
	case FolderExcept:
		return !f.inSet(folder)
	default: // FolderNone
		return false
	}
}

func (f Filter) inSet(folder string) bool {
	folder = strings.Trim(strings.ReplaceAll(folder, "\\", "/"), "/")
	for _, want := range f.folders {
		if folder == want || strings.HasPrefix(folder, want+"/") {
			return true
		}
	}
	return false
}
