package library

// Draft is what a caller asks to save: either a catalog item that is not yet
// in the library or an entry that already is. Only Service.Save turns a
// Draft into a stored Entry.
type Draft interface {
	isDraft()
}

// NewCandidate is a catalog item being added for the first time.
type NewCandidate struct {
	KitsuID    string
	Title      string
	Genres     []string
	Synopsis   string
	CoverImage string
}

// OwnedEntry addresses an existing library entry by storage id.
type OwnedEntry struct {
	ID string
}

func (NewCandidate) isDraft() {}
func (OwnedEntry) isDraft()   {}

// Progress carries the user-editable fields. On an OwnedEntry an empty
// Status or nil Rating leaves the stored value unchanged.
type Progress struct {
	Status Status
	Rating *int
}
