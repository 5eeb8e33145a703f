package dto

type UploadResponse struct {
	ChatId      string   `json:"chat_id"`
	TotalChunks int      `json:"total_chunks"`
	Filenames   []string `json:"filenames"`
}
