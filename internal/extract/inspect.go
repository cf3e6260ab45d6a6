package extract

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a configuration directory under the user's home.
	api.DisableConfigDir()
}

// Info describes a document as seen by pdfcpu.
type Info struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Pages   int    `json:"pages"`
	Valid   bool   `json:"valid"`
	Problem string `json:"problem,omitempty"`
}

func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect validates doc in relaxed mode and counts its pages. A validation
// failure is reported both in the returned Info and as an error; extraction
// may still succeed on documents pdfcpu rejects.
func Inspect(doc *Document) (info Info, err error) {
	if doc.Empty() {
		return Info{}, ErrEmptyDocument
	}
	info = Info{Name: doc.Name, Size: doc.Size()}

	defer func() {
		if r := recover(); r != nil {
			info.Valid = false
			info.Problem = fmt.Sprint(r)
			err = fmt.Errorf("inspect %s: %v", doc.Name, r)
		}
	}()

	if err := api.Validate(doc.Reader(), pdfcpuConfig()); err != nil {
		info.Problem = err.Error()
		return info, fmt.Errorf("validate %s: %w", doc.Name, err)
	}
	info.Valid = true

	pages, err := api.PageCount(doc.Reader(), pdfcpuConfig())
	if err != nil {
		return info, fmt.Errorf("page count %s: %w", doc.Name, err)
	}
	info.Pages = pages

	return info, nil
}
