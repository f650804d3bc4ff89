package graph

import "time"

// Item represents a OneDrive drive item (file or folder). Fields are
// normalized from the Graph API response — callers never see raw API data.
type Item struct {
	ID          string
	Name        string
	DriveID     string // parent drive, lowercase (Graph API casing is inconsistent)
	ParentID    string
	Size        int64
	IsFolder    bool
	IsPackage   bool // OneNote packages — have no downloadable content
	WebURL      string
	MimeType    string
	ModifiedAt  time.Time
	DownloadURL string // pre-authenticated, ephemeral; never log
}
