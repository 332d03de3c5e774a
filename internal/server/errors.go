package server

import "fmt"

// StartupError はサーバーの起動を継続できないエラー
type StartupError struct {
	Op   string // 失敗した処理
	Addr string // 対象のアドレス
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("サーバーの起動に失敗 (%s %s): %v", e.Op, e.Addr, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}
