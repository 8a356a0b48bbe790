// Package gdrive (fileinfo.go) :
// File metadata lookup through the Drive API using an API key. No OAuth is
// involved; the key only works for files shared publicly.
package gdrive

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// FileInfo : Metadata known before any content byte is fetched. Size backs
// progress reporting when the download response carries no Content-Length;
// Name backs output resolution when no Content-Disposition is usable.
type FileInfo struct {
	Name string
	Size int64
}

// LookupFile : Retrieve name and size of a shared file by API key.
func LookupFile(ctx context.Context, apiKey, fileID string) (*FileInfo, error) {
	srv, err := drive.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	f, err := srv.Files.Get(fileID).Fields("name", "size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("retrieve file information of [ %s ]: %w", fileID, err)
	}
	return &FileInfo{Name: f.Name, Size: f.Size}, nil
}
