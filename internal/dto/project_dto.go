package dto

type RemoveFileRequest struct {
	FilePath string `json:"filePath"`
}
