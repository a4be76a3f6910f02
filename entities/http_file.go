package entities

import (
	"time"

	"github.com/SierraSoftworks/ghbackup/filter"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

// HttpFile is a remote file (release source tarball, or release
// asset) to be mirrored to a local path.
type HttpFile struct {
	Name         string
	URL          string
	Credentials  Credentials
	ContentType  string // empty means no Accept header override
	LastModified *time.Time
	Path         string // relative target path; may differ from Name (e.g. release assets nest under owner/tag/)
	Metadata     *metadata.Bag
}

// NewHttpFile constructs an HttpFile with an empty metadata bag.
func NewHttpFile(name, url string, creds Credentials) *HttpFile {
	return &HttpFile{Name: name, URL: url, Credentials: creds, Path: name, Metadata: metadata.NewBag()}
}

// TargetPath defaults to the file's name, unless Path was set
// explicitly by the source (release assets nest it under
// owner/tag/name).
func (f *HttpFile) TargetPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// DisplayName renders the file's identity for logs.
func (f *HttpFile) DisplayName() string { return f.Name }

// Get implements filter.Filterable by delegating to the metadata bag.
func (f *HttpFile) Get(key string) filter.Value { return f.Metadata.Get(key) }
