package models

import "github.com/uptrace/bun"

// FetchLog is one sync run record, appended by every generated script.
type FetchLog struct {
	bun.BaseModel `bun:"table:fetchlog,alias:fl"`

	FetchTime int64  `bun:"fetchTime" json:"fetchTime"`
	Msg       string `bun:"msg" json:"msg"`
}
