// Package gdrive (output.go) :
// Resolution of the local file a download is written to.
package gdrive

import (
	"mime"
	"os"
)

// DefaultFilename : Used when neither the caller nor the response supplies
// a name.
const DefaultFilename = "output"

// ResolveFilename : Filename suggested by the Content-Disposition header,
// or "" when the header is absent or cannot be parsed.
func ResolveFilename(res Response) string {
	cd := res.Header("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// OpenOutput : Open the download destination for read/write, creating or
// truncating it. An explicit path wins; otherwise the name comes from the
// Content-Disposition header, then hint, then DefaultFilename. The chosen
// name is returned so auto-derived names can be announced.
func OpenOutput(explicit string, res Response, hint string) (*os.File, string, error) {
	name := explicit
	if name == "" {
		name = ResolveFilename(res)
	}
	if name == "" {
		name = hint
	}
	if name == "" {
		name = DefaultFilename
	}
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}
