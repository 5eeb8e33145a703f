package dto

type AskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=1000"`
}

func (AskRequest) ValidationMessage(field, tag string) string {
	return "Question must be between 3 and 1000 characters"
}

type SourceDTO struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

type AskResponse struct {
	Answer string      `json:"answer"`
	Source []SourceDTO `json:"source"`
	ChatId string      `json:"chat_id"`
}
