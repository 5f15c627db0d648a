package message

import (
	"errors"
	"time"
)

var ErrInvalidMessage = errors.New("message needs a recipient and a body")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Send(fromUserID, toUserID int, orderID *int, body string) (Message, error) {
	if fromUserID <= 0 || toUserID <= 0 || body == "" {
		return Message{}, ErrInvalidMessage
	}
	return s.repo.Create(Message{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		OrderID:    orderID,
		Body:       body,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) Inbox(userID int) ([]Message, error) {
	if userID <= 0 {
		return []Message{}, nil
	}
	return s.repo.ListInbox(userID)
}

func (s *Service) UnreadCount(userID int) (int, error) {
	if userID <= 0 {
		return 0, nil
	}
	return s.repo.CountUnread(userID)
}

func (s *Service) MarkRead(id, userID int) error {
	return s.repo.MarkRead(id, userID)
}
