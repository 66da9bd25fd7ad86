// Package dto defines the request and response bodies of the chatbot endpoint.
package dto

// AskRequest is the body of POST /user/chatbot.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse carries the generated answer.
type AskResponse struct {
	Answer string `json:"answer"`
}
