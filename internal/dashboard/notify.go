package dashboard

import "log/slog"

// Notifier 接收每次操作完成后的瞬时通知，由展示层决定如何呈现
type Notifier interface {
	Success(message string)
	Error(message string)
}

type slogNotifier struct{}

func NewSlogNotifier() Notifier {
	return &slogNotifier{}
}

func (n *slogNotifier) Success(message string) {
	slog.Info(message)
}

func (n *slogNotifier) Error(message string) {
	slog.Error(message)
}
