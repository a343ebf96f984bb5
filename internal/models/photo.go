package models

import "github.com/dmitrijs2005/onboard/internal/common"

// Photo is a draft photo: a display URL for previews plus the raw bytes that
// will be uploaded on commit. The draft owns it until commit.
type Photo struct {
	Name        string
	PreviewURL  string
	ContentType string
	Data        []byte
}

func (p *Photo) Size() int {
	return len(p.Data)
}

// Release wipes the binary and revokes the preview. It is safe to call twice.
func (p *Photo) Release() {
	common.WipeByteArray(p.Data)
	p.Data = nil
	p.PreviewURL = ""
}
