package core

import "time"

type ReplyConfig interface {
	GetReplyBudget() int
	GetMaxAnswers() int
}

type PostingConfig interface {
	GetPostInterval() (min, max time.Duration)
	IsSilent() bool
	IsSupervised() bool
}
