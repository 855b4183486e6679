package ecode

import "fmt"

const (
	requiredMsg = "required"
	invalidMsg  = "invalid"
	existMsg    = "already exists"
	notExistMsg = "does not exist"
	expiredMsg  = "expired"
	deletedMsg  = "has been deleted"
)

func subject(msg string, k []string) string {
	if len(k) > 0 && k[0] != "" {
		return fmt.Sprintf("%s %s", k[0], msg)
	}
	return msg
}

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string { return subject(requiredMsg, k) }

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string { return subject(invalidMsg, k) }

// AlreadyExist returns already exist message
func AlreadyExist(k ...string) string { return subject(existMsg, k) }

// NotExist returns not exist message
func NotExist(k ...string) string { return subject(notExistMsg, k) }

// Expired returns expired message
func Expired(k ...string) string { return subject(expiredMsg, k) }

// AlreadyDeleted returns deleted message
func AlreadyDeleted(k ...string) string { return subject(deletedMsg, k) }
