package abbr

import (
	"context"
	"fmt"
)

// Reply texts shown to chat users.
const (
	MsgMissingArgument = "请在指令后带上要查询的缩写，例如：/abbr hhsh"
	MsgInvalidQuery    = "仅支持由英文字母或数字组成的缩写，例如：hhsh"
	MsgNotFound        = "没有匹配到拼音首字母缩写"
)

// Outcome classifies how a lookup ended.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeNotFound Outcome = "not_found"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeMissing  Outcome = "missing"
)

// Candidate is one element of the upstream result array.
type Candidate struct {
	Name  string   `json:"name"`
	Trans []string `json:"trans"`
}

// Result is the reply produced for one query.
type Result struct {
	Reply   string
	Outcome Outcome
}

// Client defines the lookup contract the chat adapters depend on.
type Client interface {
	Lookup(ctx context.Context, raw string) (Result, error)
}

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}
