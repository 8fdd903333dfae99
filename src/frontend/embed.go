package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// ViewerFS contains the log viewer page and its assets.
//
//go:embed all:viewer
var ViewerFS embed.FS

// GetHTTPFileSystem returns an http.FileSystem for serving the embedded viewer assets.
// The "viewer" prefix is stripped from paths.
func GetHTTPFileSystem() (http.FileSystem, error) {
	sub, err := fs.Sub(ViewerFS, "viewer")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
