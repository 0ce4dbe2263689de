package dataset

import (
	"io"
	"strings"

	"github.com/adrg/frontmatter"
)

// decodeMarkdown reads the table from the front matter and uses the
// markdown body as the description.
func decodeMarkdown(r io.Reader) (*Dataset, error) {
	var doc document
	body, err := frontmatter.Parse(r, &doc)
	if err != nil {
		return nil, err
	}
	ds := doc.dataset()
	if text := strings.TrimSpace(string(body)); text != "" {
		ds.Description = text
	}
	return ds, nil
}
