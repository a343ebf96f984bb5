package models

// TagKind selects one of the two user↔tag association sets.
type TagKind string

const (
	TagInterest TagKind = "interest"
	TagClub     TagKind = "club"
)

// TagKinds lists the kinds in the order a commit reconciles them.
var TagKinds = []TagKind{TagInterest, TagClub}

// Tag is an interest or club. Names are unique per kind and matched exactly.
type Tag struct {
	ID   int64
	Name string
}
