package core

import "context"

// SessionLogger 是配餐会话/反馈记录协作方的领域接口。
//
// 写入语义为 fire-and-forget：记录失败不得影响配餐响应本身，
// 引擎只记日志后继续（见 engine.Engine）。
type SessionLogger interface {
	// RecordPairingSession 记录一次配餐会话，返回会话 ID。
	RecordPairingSession(ctx context.Context, pctx *PairingContext, recs []*Recommendation) (string, error)
}

// NopSessionLogger 是空实现，未接入会话存储时使用。
type NopSessionLogger struct{}

func (NopSessionLogger) RecordPairingSession(ctx context.Context, pctx *PairingContext, recs []*Recommendation) (string, error) {
	return "", nil
}
