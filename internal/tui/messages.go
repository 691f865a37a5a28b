package tui

import (
	"nerves/internal/domain/entity"
	"nerves/internal/session"
)

type sessionMsg struct {
	snapshot session.Snapshot
}

type resultsMsg struct {
	entries []*entity.Entry
}

type feedLoadedMsg struct {
	entries []*entity.Entry
	err     error
}

type signInResultMsg struct {
	err error
}

type signUpResultMsg struct {
	message string
	err     error
}

type signOutDoneMsg struct {
	err error
}

type entrySavedMsg struct {
	err error
}

type chatReplyMsg struct {
	reply string
	err   error
}
