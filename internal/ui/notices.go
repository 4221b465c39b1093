package ui

import "hostgrip/internal/logging"

// noticeQueue holds blocking notices until the user dismisses them, one at
// a time, oldest first
type noticeQueue struct {
	messages []string
}

// Notify implements search.Notifier
func (q *noticeQueue) Notify(message string) {
	logging.Log.WithField("notice", message).Info("notice raised")
	q.messages = append(q.messages, message)
}

func (q *noticeQueue) pending() bool {
	return len(q.messages) > 0
}

func (q *noticeQueue) current() string {
	if len(q.messages) == 0 {
		return ""
	}
	return q.messages[0]
}

func (q *noticeQueue) dismiss() {
	if len(q.messages) > 0 {
		q.messages = q.messages[1:]
	}
}
