package storage

import "mime/multipart"

// Saver persists an uploaded file and returns its public reference.
// Stored blobs are treated as an append-only archive: detaching a
// reference from a task or project never deletes the blob.
type Saver interface {
	Save(file *multipart.FileHeader) (string, error)
}
