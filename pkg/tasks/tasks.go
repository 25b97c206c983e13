package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeCreateNotification = "notification:create"
)

type CreateNotificationTaskPayload struct {
	UserID  string
	Title   string
	Message string
}

func NewCreateNotificationTask(userID, title, message string) (*asynq.Task, error) {
	payload, err := json.Marshal(CreateNotificationTaskPayload{
		UserID:  userID,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCreateNotification, payload), nil
}
